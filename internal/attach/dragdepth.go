// ABOUTME: Drag-depth counter for drag-and-drop targets
// ABOUTME: Nested enter/leave signals only clear the dragging state at depth zero

package attach

import "sync"

// DragDepth tracks nested drag enter/leave signals. A single dragged
// item crossing child element boundaries fires an enter/leave pair per
// boundary, so the dragging state must only clear when the counter
// returns to zero, not on the first leave.
type DragDepth struct {
	mu     sync.Mutex
	depth  int
	active bool
}

// Enter records a drag-enter signal and returns the active state.
func (d *DragDepth) Enter() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth++
	d.active = true
	return d.active
}

// Leave records a drag-leave signal. The active state clears only when
// every enter has been matched by a leave.
func (d *DragDepth) Leave() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.depth > 0 {
		d.depth--
	}
	if d.depth == 0 {
		d.active = false
	}
	return d.active
}

// Drop records a drop: the drag is over regardless of depth.
func (d *DragDepth) Drop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth = 0
	d.active = false
}

// Active reports whether a drag is currently over the target.
func (d *DragDepth) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
