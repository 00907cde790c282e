// ABOUTME: Tests for the attachment pipeline
// ABOUTME: Verifies validation policy, previews, mid-upload removal, and batch settlement

package attach

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploader implements Uploader with scripted per-file behavior.
type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	failFor map[string]error       // filename -> error
	gates   map[string]chan struct{} // filename -> gate blocking completion
	ticks   []int                    // progress percentages emitted per upload
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		failFor: make(map[string]error),
		gates:   make(map[string]chan struct{}),
		ticks:   []int{25, 50, 75, 100},
	}
}

func (u *fakeUploader) UploadAttachment(ctx context.Context, roomID, filename, mediaType string, data []byte, progress func(int)) (string, error) {
	u.mu.Lock()
	u.calls++
	gate := u.gates[filename]
	failErr := u.failFor[filename]
	ticks := u.ticks
	u.mu.Unlock()

	for _, pct := range ticks {
		if progress != nil {
			progress(pct)
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if failErr != nil {
		return "", failErr
	}
	return "att-" + filename, nil
}

func pngInput(name string, size int) Input {
	return Input{Name: name, MediaType: "image/png", Data: bytes.Repeat([]byte{0x89}, size)}
}

func TestSelect_SizeBoundary(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)

	// Exactly at the ceiling: accepted.
	errs := p.Select(pngInput("exact.png", MaxFileSize))
	assert.Empty(t, errs)
	assert.Equal(t, 1, p.Len())

	// One byte over: rejected with a named-file error.
	errs = p.Select(pngInput("over.png", MaxFileSize+1))
	require.Len(t, errs, 1)
	var verr *ValidationError
	require.ErrorAs(t, errs[0], &verr)
	assert.Equal(t, "over.png", verr.FileName)
	assert.Contains(t, verr.Reason, "10MB")
	assert.Equal(t, 1, p.Len(), "rejected file must not join the pending set")
}

func TestSelect_TypeAllowList(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)

	errs := p.Select(
		Input{Name: "notes.txt", MediaType: "text/plain", Data: []byte("hi")},
		Input{Name: "slides.pdf", MediaType: "application/pdf", Data: []byte("%PDF")},
		Input{Name: "demo.mp4", MediaType: "video/mp4", Data: []byte{0, 0}},
		Input{Name: "payload.exe", MediaType: "application/x-msdownload", Data: []byte{0x4d}},
	)

	require.Len(t, errs, 1)
	var verr *ValidationError
	require.ErrorAs(t, errs[0], &verr)
	assert.Equal(t, "payload.exe", verr.FileName)

	files := p.Files()
	require.Len(t, files, 3)
	// Selection order preserved.
	assert.Equal(t, "notes.txt", files[0].Name)
	assert.Equal(t, "demo.mp4", files[2].Name)
}

func TestSelect_PreviewOnlyForImages(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	p.Select(
		Input{Name: "pic.png", MediaType: "image/png", Data: []byte{1, 2, 3}},
		Input{Name: "doc.pdf", MediaType: "application/pdf", Data: []byte("%PDF")},
	)

	files := p.Files()
	require.Len(t, files, 2)
	assert.True(t, strings.HasPrefix(files[0].Preview, "data:image/png;base64,"))
	assert.Empty(t, files[1].Preview, "non-image types get no preview")
}

func TestSelect_DetectsMediaType(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	errs := p.Select(Input{Name: "readme.txt", Data: []byte("plain text")})
	assert.Empty(t, errs)

	files := p.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "text/plain", files[0].MediaType)
}

func TestRemove_Unconditional(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	p.Select(pngInput("a.png", 10), pngInput("b.png", 10))
	files := p.Files()

	assert.True(t, p.Remove(files[0].ID))
	assert.False(t, p.Remove(files[0].ID), "second removal of the same id")
	require.Equal(t, 1, p.Len())
	assert.Equal(t, "b.png", p.Files()[0].Name)
}

func TestUploadAll_ConcurrentBatchSettlesCompletely(t *testing.T) {
	uploader := newFakeUploader()
	uploader.failFor["bad.png"] = errors.New("connection reset")
	p := NewPipeline(uploader, nil)
	p.Select(pngInput("ok1.png", 10), pngInput("bad.png", 10), pngInput("ok2.png", 10))

	ids, err := p.UploadAll(context.Background(), "room-1")

	// Batch is all-or-nothing: one failure fails the whole send.
	require.Error(t, err)
	assert.Nil(t, ids)
	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "bad.png", terr.FileName)

	// All three settled: the two good files reached 100%, the bad one
	// carries a visible error and stays in the set.
	require.Equal(t, 3, uploader.calls)
	for _, f := range p.Files() {
		if f.Name == "bad.png" {
			assert.Error(t, f.Err)
			assert.False(t, f.Uploading)
		} else {
			assert.Equal(t, 100, f.Progress)
			assert.NoError(t, f.Err)
		}
	}
}

func TestUploadAll_Success(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	p.Select(pngInput("a.png", 10), pngInput("b.png", 10))

	ids, err := p.UploadAll(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"att-a.png", "att-b.png"}, ids, "ids in selection order")

	p.Clear()
	assert.Zero(t, p.Len())
}

func TestUploadAll_EmptySet(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	ids, err := p.UploadAll(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUploadAll_RemovedMidUploadIsDiscarded(t *testing.T) {
	uploader := newFakeUploader()
	gate := make(chan struct{})
	uploader.gates["slow.png"] = gate
	p := NewPipeline(uploader, nil)
	p.Select(pngInput("slow.png", 10), pngInput("fast.png", 10))
	slowID := p.Files()[0].ID

	done := make(chan struct{})
	var ids []string
	var uploadErr error
	go func() {
		defer close(done)
		ids, uploadErr = p.UploadAll(context.Background(), "room-1")
	}()

	// Remove the slow file while its upload is parked.
	require.Eventually(t, func() bool {
		uploader.mu.Lock()
		defer uploader.mu.Unlock()
		return uploader.calls == 2
	}, time.Second, time.Millisecond)
	require.True(t, p.Remove(slowID))

	close(gate)
	<-done

	require.NoError(t, uploadErr)
	// The removed file's id is not handed to the send flow, and its
	// terminal state must not reappear in the pending set.
	assert.Equal(t, []string{"att-fast.png"}, ids)
	files := p.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "fast.png", files[0].Name)
}

func TestUploadAll_ProgressMonotonicPerFile(t *testing.T) {
	uploader := newFakeUploader()
	uploader.ticks = []int{10, 5, 40, 40, 90, 100} // out-of-order and repeated ticks
	p := NewPipeline(uploader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _ := p.Subscribe(ctx)

	p.Select(pngInput("a.png", 10))
	_, err := p.UploadAll(context.Background(), "room-1")
	require.NoError(t, err)
	cancel()

	last := -1
	for ev := range events {
		if ev.Kind != EventProgress {
			continue
		}
		assert.Greater(t, ev.File.Progress, last, "observed progress must be monotonic")
		last = ev.File.Progress
	}
	assert.Equal(t, 100, last)
}

func TestUploadAll_SecondBatchWhileInFlight(t *testing.T) {
	uploader := newFakeUploader()
	gate := make(chan struct{})
	uploader.gates["a.png"] = gate
	p := NewPipeline(uploader, nil)
	p.Select(pngInput("a.png", 10))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.UploadAll(context.Background(), "room-1")
	}()

	require.Eventually(t, func() bool {
		uploader.mu.Lock()
		defer uploader.mu.Unlock()
		return uploader.calls == 1
	}, time.Second, time.Millisecond)

	_, err := p.UploadAll(context.Background(), "room-1")
	assert.ErrorIs(t, err, ErrUploadInProgress)

	close(gate)
	<-done
}

func TestSubscribe_MultipleObservers(t *testing.T) {
	p := NewPipeline(newFakeUploader(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, _ := p.Subscribe(ctx)
	ch2, id2 := p.Subscribe(ctx)

	p.Select(pngInput("a.png", 10))

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, EventAdded, ev1.Kind)
	assert.Equal(t, ev1.File.ID, ev2.File.ID)

	// Unsubscribing one observer does not affect the other.
	p.Unsubscribe(id2)
	p.Select(pngInput("b.png", 10))
	ev1 = <-ch1
	assert.Equal(t, "b.png", ev1.File.Name)
	_, open := <-ch2
	assert.False(t, open, "unsubscribed channel is closed")
}

func TestDragDepth_NestedBoundaries(t *testing.T) {
	var d DragDepth

	assert.True(t, d.Enter())  // enter form
	assert.True(t, d.Enter())  // enter child input
	assert.True(t, d.Leave())  // leave child — still dragging
	assert.True(t, d.Active())
	assert.False(t, d.Leave()) // leave form — drag ends at depth zero
	assert.False(t, d.Active())

	// Leave without enter must not wedge the counter negative.
	assert.False(t, d.Leave())
	assert.True(t, d.Enter())
	assert.False(t, d.Leave())
}

func TestDragDepth_DropResets(t *testing.T) {
	var d DragDepth
	d.Enter()
	d.Enter()
	d.Drop()
	assert.False(t, d.Active())
	assert.True(t, d.Enter(), "fresh drag after drop starts clean")
	assert.False(t, d.Leave())
}
