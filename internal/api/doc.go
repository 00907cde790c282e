// Package api provides the HTTP client for the meetmind backend.
//
// # Overview
//
// The api package is the single boundary between the client and the
// backend service. It owns the wire types (Message, Room, Participant,
// Attachment, Transcript) and one operation per backend endpoint:
//
//   - ListMessages: cursor-based message pagination
//   - CreateMessage: message creation with attachment references
//   - UploadAttachment: multipart upload with out-of-band progress
//   - FetchTranscript: full transcript body retrieval
//   - GetRoom / ListRooms: room metadata
//   - ListParticipants / AddParticipant: roster access
//   - SignIn / Me: bearer credential acquisition
//   - SessionToken: live-session join token (the client never touches media)
//
// # Authentication
//
// Every authorized call carries a bearer token:
//
//	client := api.New("https://meetmind.example.com", api.WithToken(token))
//
// # Errors
//
// Server-side failures are returned as *api.Error carrying the HTTP
// status and the backend's error message. Transport failures are
// returned wrapped and unchanged.
package api
