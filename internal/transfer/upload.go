package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"factorix/internal/eventbus"
)

// contentTypeByExtension maps a MOD upload's file extension to its
// multipart Content-Type, falling back to octet-stream for anything
// else.
func contentTypeByExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return "application/zip"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

const (
	TopicUploadStarted   = "upload.started"
	TopicUploadProgress  = "upload.progress"
	TopicUploadCompleted = "upload.completed"
)

type UploadStarted struct{ TotalSize int64 }
type UploadProgress struct{ CurrentSize, TotalSize int64 }
type UploadCompleted struct{ TotalSize int64 }

// Upload posts filePath as a multipart form field (fieldName) to rawURL,
// along with any extra string fields, retrying network errors and 5xx
// responses. It returns the response body on success.
func (c *Client) Upload(ctx context.Context, rawURL, fieldName, filePath string, extra map[string]string, headers map[string]string) ([]byte, error) {
	if err := requireHTTPS(rawURL); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}
		body, err := c.uploadAttempt(ctx, rawURL, fieldName, filePath, extra, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) uploadAttempt(ctx context.Context, rawURL, fieldName, filePath string, extra, headers map[string]string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer mw.Close()

		for k, v := range extra {
			if err := mw.WriteField(k, v); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, filepath.Base(filePath))}
		h["Content-Type"] = []string{contentTypeByExtension(filePath)}
		part, err := mw.CreatePart(h)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		f, err := os.Open(filePath)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		defer f.Close()

		c.bus.Publish(eventbus.Event{Topic: TopicUploadStarted, Payload: UploadStarted{TotalSize: info.Size()}})
		progress := &uploadProgressWriter{bus: c.bus, total: info.Size()}
		if _, err := io.Copy(io.MultiWriter(part, progress), f); err != nil {
			pw.CloseWithError(err)
			return
		}
		c.bus.Publish(eventbus.Event{Topic: TopicUploadCompleted, Payload: UploadCompleted{TotalSize: info.Size()}})
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkTimeoutError{Cause: err}
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, &NetworkTimeoutError{Cause: err}
	}

	if err := classify(resp, buf.String()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// uploadProgressWriter publishes UploadProgress events as the file body
// streams to the multipart writer, accumulating a running total across
// calls so progress is monotonically non-decreasing.
type uploadProgressWriter struct {
	bus     *eventbus.Bus
	current int64
	total   int64
}

func (w *uploadProgressWriter) Write(p []byte) (int, error) {
	w.current += int64(len(p))
	if w.bus != nil {
		w.bus.Publish(eventbus.Event{Topic: TopicUploadProgress, Payload: UploadProgress{CurrentSize: w.current, TotalSize: w.total}})
	}
	return len(p), nil
}
