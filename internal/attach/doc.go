// Package attach manages the pending file attachments for the next
// outgoing message, independently of message text entry.
//
// # Lifecycle
//
// A file selected or dropped by the user is validated against the size
// ceiling and media-type allow-list, assigned a client-local id, given a
// data-URL preview when it is an image, and appended to the pending set:
//
//	p := attach.NewPipeline(uploader, logger)
//	errs := p.Select(attach.Input{Name: "a.png", Data: data})
//
// Rejections are returned immediately as *ValidationError values; they
// never enter async state and are not retried.
//
// UploadAll transfers every pending file concurrently. Each upload
// reports monotonic progress independently; one file's failure does not
// abort its siblings, but the batch as a whole fails if any file failed,
// and the send flow must treat that as a failed send rather than sending
// a partial attachment set.
//
// A file may be removed at any time, including mid-upload: the pending
// set simply forgets it and any later-arriving progress or terminal
// state for that id is discarded.
//
// # Observation
//
// State changes are published on a fan-out event stream. Multiple
// observers (the interactive view, tests) subscribe independently:
//
//	events, id := p.Subscribe(ctx)
//	defer p.Unsubscribe(id)
//
// # Drag-and-drop
//
// DragDepth tracks nested drag enter/leave signals with a counter, so
// the dragging visual state clears only when the depth returns to zero
// rather than on the first leave signal from a child boundary.
package attach
