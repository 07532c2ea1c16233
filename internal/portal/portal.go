// Package portal is the facade over the Factorio Mod Portal API: mapping
// JSON responses to value objects and orchestrating the publish/update
// upload variants.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"factorix/internal/transfer"
)

const baseURL = "https://mods.factorio.com"

// Executor performs the raw HTTP requests the portal issues. transfer.Client
// satisfies a superset of this interface; tests can substitute a fake.
type Executor interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceCredentials authenticate download requests via query
// parameters.
type ServiceCredentials struct {
	Username string
	Token    string
}

// APICredentials authenticate the JSON API requests (GET and POST) via a
// Bearer header.
type APICredentials struct {
	APIKey string
}

// Release describes one published version of a MOD.
type Release struct {
	DownloadURL string `json:"download_url"`
	FileName    string `json:"file_name"`
	Version     string `json:"version"`
	Sha1        string `json:"sha1"`
	ReleasedAt  string `json:"released_at"`
	InfoJSON    struct {
		FactorioVersion string   `json:"factorio_version"`
		Dependencies    []string `json:"dependencies"`
	} `json:"info_json"`
}

// ModInfo is the summary or full-detail form of a portal MOD record,
// depending on which endpoint produced it.
type ModInfo struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Owner      string    `json:"owner"`
	Summary    string    `json:"summary"`
	Downloads  int       `json:"downloads_count"`
	Category   string    `json:"category"`
	Deprecated bool      `json:"deprecated"`
	Releases   []Release `json:"releases"`
}

// UnknownMod reports a 404 from a mod-scoped endpoint.
type UnknownMod struct{ Name string }

func (e *UnknownMod) Error() string { return fmt.Sprintf("portal: unknown mod %q", e.Name) }

// InvalidApiKey reports a 401 from an API-key-authenticated endpoint.
type InvalidApiKey struct{}

func (e *InvalidApiKey) Error() string { return "portal: invalid API key" }

// Forbidden reports a 403.
type Forbidden struct{ Reason string }

func (e *Forbidden) Error() string { return fmt.Sprintf("portal: forbidden: %s", e.Reason) }

// ModAlreadyExists reports a 4xx returned by init_publish for a name
// that already has a published mod.
type ModAlreadyExists struct{ Name string }

func (e *ModAlreadyExists) Error() string { return fmt.Sprintf("portal: mod %q already exists", e.Name) }

// Facade is the portal client.
type Facade struct {
	exec    Executor
	xfer    *transfer.Client
	service ServiceCredentials
	api     APICredentials
}

// New builds a Facade. xfer is used for the download/upload byte
// transfers; exec (often the same client) issues the JSON API calls.
func New(exec Executor, xfer *transfer.Client, service ServiceCredentials, api APICredentials) *Facade {
	return &Facade{exec: exec, xfer: xfer, service: service, api: api}
}

func canonicalizeParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	q := url.Values{}
	for _, k := range keys {
		q.Set(k, params[k])
	}
	return q.Encode()
}

func (f *Facade) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	u := baseURL + path
	if qs := canonicalizeParams(params); qs != "" {
		u += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if f.api.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.api.APIKey)
	}

	resp, err := f.exec.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, &UnknownMod{Name: strings.TrimPrefix(path, "/api/mods/")}
	case http.StatusUnauthorized:
		return nil, &InvalidApiKey{}
	case http.StatusForbidden:
		return nil, &Forbidden{Reason: string(body)}
	default:
		return nil, fmt.Errorf("portal: unexpected status %d: %s", resp.StatusCode, body)
	}
}

// ListMods queries /api/mods with canonicalized parameters (empty values
// dropped, keys sorted) so equivalent requests produce the same URL. The
// response is not cached.
func (f *Facade) ListMods(ctx context.Context, params map[string]string) ([]ModInfo, error) {
	body, err := f.get(ctx, "/api/mods", params)
	if err != nil {
		return nil, err
	}
	var wire struct {
		Results []ModInfo `json:"results"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	return wire.Results, nil
}

// GetMod fetches the summary form of name.
func (f *Facade) GetMod(ctx context.Context, name string) (ModInfo, error) {
	body, err := f.get(ctx, "/api/mods/"+url.PathEscape(name), nil)
	if err != nil {
		return ModInfo{}, err
	}
	var m ModInfo
	if err := json.Unmarshal(body, &m); err != nil {
		return ModInfo{}, err
	}
	return m, nil
}

// GetModFull fetches the full-detail form of name, including releases.
func (f *Facade) GetModFull(ctx context.Context, name string) (ModInfo, error) {
	body, err := f.get(ctx, "/api/mods/"+url.PathEscape(name)+"/full", nil)
	if err != nil {
		return ModInfo{}, err
	}
	var m ModInfo
	if err := json.Unmarshal(body, &m); err != nil {
		return ModInfo{}, err
	}
	return m, nil
}

// DownloadMod downloads release to outPath, attaching service
// credentials as query parameters.
func (f *Facade) DownloadMod(ctx context.Context, release Release, outPath string) error {
	dlURL, err := BuildDownloadURL(release, f.service.Username, f.service.Token)
	if err != nil {
		return err
	}
	return f.xfer.Download(ctx, dlURL, outPath, release.Sha1)
}

// BuildDownloadURL attaches service credentials to release's download
// URL as query parameters, for callers (such as a cache-fronted
// downloader) that need the URL without going through DownloadMod.
func BuildDownloadURL(release Release, username, token string) (string, error) {
	dlURL, err := url.Parse(baseURL + release.DownloadURL)
	if err != nil {
		return "", err
	}
	q := dlURL.Query()
	q.Set("username", username)
	q.Set("token", token)
	dlURL.RawQuery = q.Encode()
	return dlURL.String(), nil
}
