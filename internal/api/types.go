// ABOUTME: Wire types for the meetmind backend API
// ABOUTME: JSON field names match the backend's serialized models exactly

package api

import "time"

// MessageType identifies the kind of a message in a room's log.
type MessageType string

const (
	// MessageTypeUser is a standard message authored by a user.
	MessageTypeUser MessageType = "user_message"
	// MessageTypeTranscript indicates the message references a meeting transcript.
	MessageTypeTranscript MessageType = "meeting_transcript"
	// MessageTypeParticipantJoined indicates a participant has joined the room.
	MessageTypeParticipantJoined MessageType = "participant_joined"
)

// Message is a single entry in a room's conversation log. Messages are
// immutable once created; seq_no is assigned by the backend and is
// monotonic within a room.
type Message struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"room_id"`
	UserID      string       `json:"user_id,omitempty"`
	Username    string       `json:"username"`
	SeqNo       int          `json:"seq_no"`
	Content     string       `json:"content"`
	MessageType MessageType  `json:"message_type"`
	ExtraData   *ExtraData   `json:"extra_data,omitempty"`
	Edited      bool         `json:"edited,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
}

// ExtraData holds flexible payloads for special message types.
type ExtraData struct {
	Transcript *TranscriptLocator `json:"transcript,omitempty"`
}

// TranscriptLocator is the storage metadata attached to a
// meeting_transcript message, needed to fetch the full transcript body.
type TranscriptLocator struct {
	Bucket       string      `json:"bucket"`
	Region       string      `json:"region"`
	StorageKeys  StorageKeys `json:"s3_keys"`
	HTTPSUrls    HTTPSUrls   `json:"https_urls"`
	SessionStart time.Time   `json:"session_start"`
	SessionEnd   time.Time   `json:"session_end"`
}

// StorageKeys are the object keys for the two transcript renditions.
type StorageKeys struct {
	JSON string `json:"json"`
	Text string `json:"text"`
}

// HTTPSUrls are pre-built URLs for the transcript renditions.
type HTTPSUrls struct {
	JSON string `json:"json_https_url"`
	Text string `json:"text_https_url"`
}

// Attachment is a resolved file descriptor on a delivered message.
type Attachment struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	StorageURL string `json:"storage_url"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
}

// Reaction aggregates emoji reactions on a message.
type Reaction struct {
	Emoji   string   `json:"emoji"`
	UserIDs []string `json:"userIds"`
	Count   int      `json:"count"`
}

// Room is the read-only room metadata.
type Room struct {
	ID              string    `json:"id"`
	RoomName        string    `json:"room_name"`
	RoomSID         string    `json:"room_sid,omitempty"`
	Description     string    `json:"description,omitempty"`
	OwnerID         string    `json:"owner_id"`
	LiveKitRoomName string    `json:"livekit_room_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	IsActive        bool      `json:"is_active"`
}

// RoomDetails is the single-room response: the room plus viewer-relative
// fields computed by the backend.
type RoomDetails struct {
	Room             Room `json:"room"`
	ParticipantCount int  `json:"participant_count"`
	IsOwner          bool `json:"is_owner"`
}

// Participant is a roster entry for a room.
type Participant struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	ParticipantID   string     `json:"participant_id,omitempty"`
	UserID          string     `json:"user_id,omitempty"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	LiveKitIdentity string     `json:"livekit_identity,omitempty"`
	Role            string     `json:"role"`
	JoinedAt        *time.Time `json:"joined_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastViewedAt    *time.Time `json:"last_viewed_at,omitempty"`
	LastReadSeqNo   int        `json:"last_read_seq_no"`
	IsActive        bool       `json:"is_active"`
}

// AddParticipantRequest invites a participant to a room by email.
type AddParticipantRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Transcript is the full transcript body of a meeting session.
type Transcript struct {
	RoomName     string           `json:"room_name"`
	SessionStart time.Time        `json:"session_start"`
	SessionEnd   time.Time        `json:"session_end"`
	Items        []TranscriptItem `json:"items"`
}

// TranscriptItem is one timestamped utterance in a transcript.
type TranscriptItem struct {
	Timestamp       time.Time           `json:"timestamp"`
	Role            string              `json:"role"`
	Interrupted     bool                `json:"interrupted"`
	Content         []TranscriptContent `json:"content"`
	SpeakerIdentity string              `json:"speaker_identity"`
	SpeakerName     string              `json:"speaker_name"`
}

// TranscriptContent is a content fragment within an utterance.
type TranscriptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// User is the authenticated account profile.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

// AuthResponse is the result of a successful sign-in.
type AuthResponse struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
