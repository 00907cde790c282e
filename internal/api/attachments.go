// ABOUTME: Attachment upload endpoint with out-of-band progress reporting
// ABOUTME: Multipart body streamed through a counting reader

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// UploadAttachment uploads one file to a room and returns the backend's
// attachment id. progress, if non-nil, receives monotonically increasing
// percentages in [0, 100] as the body is transmitted.
func (c *Client) UploadAttachment(ctx context.Context, roomID, filename, mediaType string, data []byte, progress func(int)) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}

	body := io.Reader(&buf)
	if progress != nil {
		body = &progressReader{r: &buf, total: int64(buf.Len()), report: progress}
	}

	path := fmt.Sprintf("/api/app/rooms/%s/attachments", url.PathEscape(roomID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.uploader.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}

	var result struct {
		FileID string `json:"fileId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if strings.TrimSpace(result.FileID) == "" {
		return "", fmt.Errorf("upload response missing fileId")
	}
	return result.FileID, nil
}

// progressReader reports transmission progress as a percentage while the
// wrapped reader is consumed. Reports are strictly increasing; repeated
// reads within the same percent emit nothing.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}
