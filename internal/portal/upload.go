package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ConfigurationError reports a precondition failure in the caller's
// upload request, independent of the network call.
type ConfigurationError struct{ Reason string }

func (e *ConfigurationError) Error() string { return fmt.Sprintf("portal: %s", e.Reason) }

// statusError wraps an unmapped non-2xx status from a POST endpoint.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("portal: unexpected status %d: %s", e.Status, e.Body)
}

func (f *Facade) postJSON(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.api.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.api.APIKey)
	}

	resp, err := f.exec.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return respBody, nil
	case http.StatusUnauthorized:
		return nil, &InvalidApiKey{}
	case http.StatusForbidden:
		return nil, &Forbidden{Reason: string(respBody)}
	default:
		return nil, &statusError{Status: resp.StatusCode, Body: string(respBody)}
	}
}

// initPublish requests a fresh upload URL for a MOD name that does not
// exist on the portal yet. Any unmapped 4xx is treated as the name
// already being taken, since init_publish's only failure mode for an
// otherwise well-formed request is a name collision.
func (f *Facade) initPublish(ctx context.Context, name string) (string, error) {
	body, err := f.postJSON(ctx, "/v2/mods/init_publish", map[string]any{"mod": name})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return "", &ModAlreadyExists{Name: name}
		}
		return "", err
	}
	var wire struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", err
	}
	return wire.UploadURL, nil
}

// initUpload requests an upload URL for a new release of an existing MOD.
func (f *Facade) initUpload(ctx context.Context, name string) (string, error) {
	body, err := f.postJSON(ctx, "/v2/mods/releases/init_upload", map[string]any{"mod": name})
	if err != nil {
		return "", err
	}
	var wire struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", err
	}
	return wire.UploadURL, nil
}

func (f *Facade) finishUpload(ctx context.Context, uploadURL, filePath string, metadata map[string]string) error {
	_, err := f.xfer.Upload(ctx, uploadURL, "file", filePath, metadata, nil)
	return err
}

// EditDetails updates name's published metadata. Empty metadata is
// rejected.
func (f *Facade) EditDetails(ctx context.Context, name string, metadata map[string]any) error {
	if len(metadata) == 0 {
		return &ConfigurationError{Reason: "edit_details requires non-empty metadata"}
	}
	body := map[string]any{"mod": name}
	for k, v := range metadata {
		body[k] = v
	}
	_, err := f.postJSON(ctx, "/v2/mods/edit_details", body)
	return err
}

// EditMod is the public entry point for the "edit" command.
func (f *Facade) EditMod(ctx context.Context, name string, metadata map[string]any) error {
	return f.EditDetails(ctx, name, metadata)
}

// UploadMod probes whether name already exists on the portal and routes
// to the publish flow (new MOD) or the update-release flow (existing
// MOD), optionally editing metadata afterward on the update path.
func (f *Facade) UploadMod(ctx context.Context, name, filePath string, metadata map[string]string) error {
	if _, err := os.Stat(filePath); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("file %q does not exist", filePath)}
	}

	_, err := f.GetMod(ctx, name)
	switch {
	case errors.As(err, new(*UnknownMod)):
		uploadURL, err := f.initPublish(ctx, name)
		if err != nil {
			return err
		}
		return f.finishUpload(ctx, uploadURL, filePath, metadata)
	case err != nil:
		return err
	default:
		uploadURL, err := f.initUpload(ctx, name)
		if err != nil {
			return err
		}
		if err := f.finishUpload(ctx, uploadURL, filePath, nil); err != nil {
			return err
		}
		if len(metadata) > 0 {
			generic := make(map[string]any, len(metadata))
			for k, v := range metadata {
				generic[k] = v
			}
			return f.EditDetails(ctx, name, generic)
		}
		return nil
	}
}
