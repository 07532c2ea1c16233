package portal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

// fakeExecutor satisfies Executor without touching the network, returning
// one canned response per call in order.
type fakeExecutor struct {
	responses []*http.Response
	requests  []*http.Request
	err       error
}

func (f *fakeExecutor) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		panic("fakeExecutor: no response queued")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}
}

func TestCanonicalizeParamsDropsEmptyAndSorts(t *testing.T) {
	got := canonicalizeParams(map[string]string{"b": "2", "a": "1", "c": ""})
	if want := "a=1&b=2"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"notFound", http.StatusNotFound, "", func(t *testing.T, err error) {
			var e *UnknownMod
			if !errors.As(err, &e) {
				t.Fatalf("expected UnknownMod, got %v", err)
			}
		}},
		{"unauthorized", http.StatusUnauthorized, "", func(t *testing.T, err error) {
			var e *InvalidApiKey
			if !errors.As(err, &e) {
				t.Fatalf("expected InvalidApiKey, got %v", err)
			}
		}},
		{"forbidden", http.StatusForbidden, "nope", func(t *testing.T, err error) {
			var e *Forbidden
			if !errors.As(err, &e) || e.Reason != "nope" {
				t.Fatalf("expected Forbidden{nope}, got %v", err)
			}
		}},
		{"serverError", http.StatusInternalServerError, "boom", func(t *testing.T, err error) {
			if err == nil {
				t.Fatal("expected error")
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exec := &fakeExecutor{responses: []*http.Response{jsonResponse(tc.status, tc.body)}}
			f := New(exec, nil, ServiceCredentials{}, APICredentials{})
			_, err := f.get(context.Background(), "/api/mods/foo", nil)
			tc.check(t, err)
		})
	}
}

func TestGetModDecodesBody(t *testing.T) {
	exec := &fakeExecutor{responses: []*http.Response{jsonResponse(http.StatusOK, `{"name":"foo","title":"Foo Mod"}`)}}
	f := New(exec, nil, ServiceCredentials{}, APICredentials{})
	m, err := f.GetMod(context.Background(), "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "foo" || m.Title != "Foo Mod" {
		t.Fatalf("got %+v", m)
	}
}

func TestGetAttachesBearerWhenAPIKeySet(t *testing.T) {
	exec := &fakeExecutor{responses: []*http.Response{jsonResponse(http.StatusOK, `{}`)}}
	f := New(exec, nil, ServiceCredentials{}, APICredentials{APIKey: "secret"})
	if _, err := f.GetMod(context.Background(), "foo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := exec.requests[0].Header.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("got Authorization %q", got)
	}
}

func TestListModsDecodesResults(t *testing.T) {
	exec := &fakeExecutor{responses: []*http.Response{jsonResponse(http.StatusOK, `{"results":[{"name":"a"},{"name":"b"}]}`)}}
	f := New(exec, nil, ServiceCredentials{}, APICredentials{})
	mods, err := f.ListMods(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mods) != 2 || mods[0].Name != "a" || mods[1].Name != "b" {
		t.Fatalf("got %+v", mods)
	}
}

func TestBuildDownloadURLAttachesCredentials(t *testing.T) {
	release := Release{DownloadURL: "/download/foo/1.0.0"}
	got, err := BuildDownloadURL(release, "me", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := baseURL + "/download/foo/1.0.0?token=tok&username=me"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitPublishTreatsAny4xxAsNameCollision(t *testing.T) {
	exec := &fakeExecutor{responses: []*http.Response{jsonResponse(http.StatusBadRequest, "taken")}}
	f := New(exec, nil, ServiceCredentials{}, APICredentials{})
	_, err := f.initPublish(context.Background(), "foo")
	var e *ModAlreadyExists
	if !errors.As(err, &e) || e.Name != "foo" {
		t.Fatalf("expected ModAlreadyExists, got %v", err)
	}
}

func TestInitPublishReturnsUploadURLOnSuccess(t *testing.T) {
	exec := &fakeExecutor{responses: []*http.Response{jsonResponse(http.StatusOK, `{"upload_url":"https://uploads.example/1"}`)}}
	f := New(exec, nil, ServiceCredentials{}, APICredentials{})
	url, err := f.initPublish(context.Background(), "foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://uploads.example/1" {
		t.Fatalf("got %q", url)
	}
}

func TestEditDetailsRejectsEmptyMetadata(t *testing.T) {
	f := New(&fakeExecutor{}, nil, ServiceCredentials{}, APICredentials{})
	err := f.EditDetails(context.Background(), "foo", nil)
	var e *ConfigurationError
	if !errors.As(err, &e) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestUploadModRejectsMissingFile(t *testing.T) {
	f := New(&fakeExecutor{}, nil, ServiceCredentials{}, APICredentials{})
	err := f.UploadMod(context.Background(), "foo", "/no/such/file.zip", nil)
	var e *ConfigurationError
	if !errors.As(err, &e) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
