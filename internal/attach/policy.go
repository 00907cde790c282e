// ABOUTME: Attachment validation policy: size ceiling and media-type allow-list
// ABOUTME: Rejections are user-visible, name the file, and never enter async state

package attach

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxFileSize is the per-file upload ceiling. A file of exactly this
// size is accepted; one byte over is rejected.
const MaxFileSize = 10 << 20 // 10 MiB

// allowedTypes is the fixed media-type allow-list: images, a fixed video
// set, and a fixed document set.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},

	"video/mp4":       {},
	"video/webm":      {},
	"video/quicktime": {},

	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"text/plain": {},
}

// ValidationError reports a file rejected before any network activity.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("file %q rejected: %s", e.FileName, e.Reason)
}

// validate applies the size and type policy to one candidate file.
func validate(name, mediaType string, size int64) error {
	if size > MaxFileSize {
		return &ValidationError{FileName: name, Reason: "exceeds 10MB limit"}
	}
	if _, ok := allowedTypes[mediaType]; !ok {
		return &ValidationError{FileName: name, Reason: fmt.Sprintf("file type %q is not supported", mediaType)}
	}
	return nil
}

// DetectMediaType resolves a file's media type from its extension,
// falling back to content sniffing. Parameters (e.g. charset) are
// stripped so the result matches the allow-list entries.
func DetectMediaType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			if base, _, err := mime.ParseMediaType(mt); err == nil {
				return base
			}
		}
	}
	mt := http.DetectContentType(data)
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return strings.TrimSpace(mt)
}
