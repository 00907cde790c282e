// Package conversation maintains the locally-consistent view of one
// room's message stream.
//
// # Overview
//
// The package has two pieces:
//
//   - Log: the ordered, deduplicated message sequence for the active
//     room, plus the roster, room metadata, and loading/error flags. It
//     is the single source of truth the presentation layer renders from.
//   - Controller: the façade that sequences the initial room load,
//     paginates backward through history, sends messages, and grows the
//     roster.
//
// # Ordering
//
// Messages are totally ordered by their server-assigned seq_no. Append
// inserts at the tail (the caller guarantees the new maximum, true for
// freshly created messages); Prepend inserts an already-sorted batch of
// strictly older messages at the head. Neither path re-sorts, and both
// drop messages whose id is already present.
//
// # Lifecycle and staleness
//
// A Controller is created at room entry and Reset at room exit. Every
// entry bumps a generation counter; an async result captured under an
// older generation is discarded instead of repopulating state for a room
// the user has already left:
//
//	ctrl := conversation.NewController(backend, directory, logger)
//	if err := ctrl.LoadInitialData(ctx, roomID); err != nil { ... }
//	...
//	ctrl.Reset() // room exit; in-flight responses become no-ops
//
// Pagination is serialized by an in-flight guard: a second
// LoadMoreMessages while one is running returns immediately without a
// network call.
package conversation
