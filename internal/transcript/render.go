// ABOUTME: Transcript rendering: markdown for the terminal, HTML for export
// ABOUTME: HTML conversion goes through goldmark from the markdown rendition

package transcript

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/bipulkrdas/meetmind/internal/api"
)

// Markdown renders a transcript as a markdown document: a header with
// the session bounds followed by one timestamped line per utterance.
func Markdown(t *api.Transcript) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Meeting Transcript — %s\n\n", t.RoomName)
	fmt.Fprintf(&b, "Session: %s — %s\n\n",
		t.SessionStart.Format(time.RFC1123),
		t.SessionEnd.Format(time.RFC1123))

	for _, item := range t.Items {
		speaker := item.SpeakerName
		if speaker == "" {
			speaker = item.SpeakerIdentity
		}
		text := itemText(item)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "- `%s` **%s**: %s", item.Timestamp.Format("15:04:05"), speaker, text)
		if item.Interrupted {
			b.WriteString(" _(interrupted)_")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders a transcript as a standalone HTML fragment via goldmark.
func HTML(t *api.Transcript) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(t)), &buf); err != nil {
		return nil, fmt.Errorf("rendering transcript html: %w", err)
	}
	return buf.Bytes(), nil
}

// itemText joins an utterance's text fragments.
func itemText(item api.TranscriptItem) string {
	parts := make([]string, 0, len(item.Content))
	for _, c := range item.Content {
		if strings.TrimSpace(c.Text) != "" {
			parts = append(parts, strings.TrimSpace(c.Text))
		}
	}
	return strings.Join(parts, " ")
}
