// ABOUTME: Pending-attachment pipeline: selection, preview, removal, concurrent upload
// ABOUTME: Per-file failure isolation with all-or-nothing batch semantics

package attach

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrUploadInProgress reports an UploadAll call while a previous batch
// is still settling.
var ErrUploadInProgress = errors.New("attachment upload already in progress")

// TransferError reports a single file's upload failure. It is isolated
// to that file; sibling uploads in the same batch continue.
type TransferError struct {
	FileName string
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("uploading %q: %v", e.FileName, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Uploader is what the pipeline needs from the backend client.
type Uploader interface {
	UploadAttachment(ctx context.Context, roomID, filename, mediaType string, data []byte, progress func(int)) (string, error)
}

// Input is a candidate file for selection.
type Input struct {
	Name string
	// MediaType may be empty; it is then detected from the name and data.
	MediaType string
	Data      []byte
}

// File is a pending attachment. The zero Progress/Uploading state means
// the file is selected but not yet transferring; Err marks a failed
// upload that remains visible and removable.
type File struct {
	ID        string
	Name      string
	MediaType string
	Size      int64
	// Preview is a base64 data URL, set only for image types.
	Preview   string
	Uploading bool
	Progress  int
	Err       error

	data []byte
}

// Pipeline owns the pending attachment set for a single compose action.
// Files never survive a successful send; the send flow calls Clear after
// the message referencing them is created.
type Pipeline struct {
	uploader Uploader
	logger   *slog.Logger
	events   *broadcaster

	mu        sync.Mutex
	files     []*File // selection order
	uploading bool
}

// NewPipeline creates an empty pipeline. Pass nil logger for the default.
func NewPipeline(uploader Uploader, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		uploader: uploader,
		logger:   logger.With("component", "attach"),
		events:   newBroadcaster(),
	}
}

// Subscribe registers an observer of attachment events. The subscription
// ends when ctx is cancelled or Unsubscribe is called with the id.
func (p *Pipeline) Subscribe(ctx context.Context) (<-chan Event, string) {
	return p.events.subscribe(ctx)
}

// Unsubscribe removes an observer and closes its channel.
func (p *Pipeline) Unsubscribe(id string) {
	p.events.unsubscribe(id)
}

// Select validates each input and appends the accepted files to the
// pending set in selection order. Image files get a data-URL preview.
// One *ValidationError is returned per rejected file; rejected files are
// dropped, not retried.
func (p *Pipeline) Select(inputs ...Input) []error {
	var errs []error
	for _, in := range inputs {
		mediaType := in.MediaType
		if mediaType == "" {
			mediaType = DetectMediaType(in.Name, in.Data)
		}
		if err := validate(in.Name, mediaType, int64(len(in.Data))); err != nil {
			errs = append(errs, err)
			continue
		}

		f := &File{
			ID:        uuid.New().String(),
			Name:      in.Name,
			MediaType: mediaType,
			Size:      int64(len(in.Data)),
			data:      in.Data,
		}
		if strings.HasPrefix(mediaType, "image/") {
			f.Preview = "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(in.Data)
		}

		p.mu.Lock()
		p.files = append(p.files, f)
		snapshot := *f
		p.mu.Unlock()

		p.events.publish(Event{Kind: EventAdded, File: snapshot})
	}
	return errs
}

// Remove deletes a pending file unconditionally, including mid-upload;
// the upload's outcome is discarded when it arrives for a missing id.
func (p *Pipeline) Remove(fileID string) bool {
	p.mu.Lock()
	var removed *File
	for i, f := range p.files {
		if f.ID == fileID {
			removed = f
			p.files = append(p.files[:i], p.files[i+1:]...)
			break
		}
	}
	var snapshot File
	if removed != nil {
		snapshot = *removed
	}
	p.mu.Unlock()

	if removed == nil {
		return false
	}
	p.events.publish(Event{Kind: EventRemoved, File: snapshot})
	return true
}

// Files returns a snapshot of the pending set in selection order.
func (p *Pipeline) Files() []File {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]File, len(p.files))
	for i, f := range p.files {
		out[i] = *f
	}
	return out
}

// Len returns the number of pending files.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.files)
}

// Clear empties the pending set. Called by the send flow after the
// message referencing the uploaded attachments is created.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	p.files = nil
	p.mu.Unlock()
}

// UploadAll uploads every pending file concurrently. Each file reports
// independent monotonic progress; a failure marks that file and does not
// abort siblings. The call returns only after every upload has settled.
// If any file failed, the whole batch fails and no ids are returned: the
// consumer must treat the send as failed rather than sending a partial
// attachment set. On success the backend attachment ids are returned in
// selection order, skipping files removed while uploading.
func (p *Pipeline) UploadAll(ctx context.Context, roomID string) ([]string, error) {
	p.mu.Lock()
	if p.uploading {
		p.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	p.uploading = true
	batch := make([]*File, len(p.files))
	copy(batch, p.files)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.uploading = false
		p.mu.Unlock()
	}()

	if len(batch) == 0 {
		return nil, nil
	}

	results := make([]string, len(batch))
	var g errgroup.Group
	for i, f := range batch {
		i, f := i, f
		p.markUploading(f.ID)
		g.Go(func() error {
			id, err := p.uploader.UploadAttachment(ctx, roomID, f.Name, f.MediaType, f.data, func(pct int) {
				p.setProgress(f.ID, pct)
			})
			if err != nil {
				p.markFailed(f.ID, err)
				return &TransferError{FileName: f.Name, Err: err}
			}
			p.markUploaded(f.ID)
			results[i] = id
			return nil
		})
	}

	// Wait for every upload to settle before reporting the batch outcome.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("attachment batch failed: %w", err)
	}

	p.mu.Lock()
	present := make(map[string]struct{}, len(p.files))
	for _, f := range p.files {
		present[f.ID] = struct{}{}
	}
	p.mu.Unlock()

	ids := make([]string, 0, len(batch))
	for i, f := range batch {
		if _, ok := present[f.ID]; ok {
			ids = append(ids, results[i])
		}
	}
	return ids, nil
}

// mutate applies fn to the file if it is still present and publishes the
// given event kind. State for removed files is silently discarded.
func (p *Pipeline) mutate(fileID string, kind EventKind, fn func(*File) bool) {
	p.mu.Lock()
	var snapshot File
	found := false
	for _, f := range p.files {
		if f.ID == fileID {
			if !fn(f) {
				p.mu.Unlock()
				return
			}
			snapshot = *f
			found = true
			break
		}
	}
	p.mu.Unlock()

	if found {
		p.events.publish(Event{Kind: kind, File: snapshot})
	}
}

func (p *Pipeline) markUploading(fileID string) {
	p.mutate(fileID, EventProgress, func(f *File) bool {
		f.Uploading = true
		f.Progress = 0
		f.Err = nil
		return true
	})
}

// setProgress applies a progress tick. Ticks are monotonic: a value not
// greater than the current progress is dropped.
func (p *Pipeline) setProgress(fileID string, pct int) {
	p.mutate(fileID, EventProgress, func(f *File) bool {
		if pct <= f.Progress || !f.Uploading {
			return false
		}
		if pct > 100 {
			pct = 100
		}
		f.Progress = pct
		return true
	})
}

func (p *Pipeline) markUploaded(fileID string) {
	p.mutate(fileID, EventUploaded, func(f *File) bool {
		f.Uploading = false
		f.Progress = 100
		return true
	})
}

func (p *Pipeline) markFailed(fileID string, err error) {
	p.mutate(fileID, EventFailed, func(f *File) bool {
		f.Uploading = false
		f.Err = err
		return true
	})
	p.logger.Warn("attachment upload failed", "file_id", fileID, "error", err)
}
