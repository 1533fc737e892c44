package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/observability"
	"github.com/matzehuels/tscproj/pkg/pipeline"
)

const doc = `{
  "version": "9.0",
  "editRate": 705600000,
  "width": 1920,
  "height": 1080,
  "sourceBin": [{"id": 1, "src": "clip.mp4", "rect": [0, 0, 1920, 1080]}],
  "timeline": {"sceneTrack": {"scenes": [{"csml": {"tracks": [
    {"medias": [
      {"_type": "VMFile", "src": 1, "start": 0, "duration": 100},
      {"_type": "AMFile", "src": 1, "start": 100, "duration": 50}
    ]}
  ]}}]}}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, nil), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeTree(t *testing.T, resp *http.Response) *jsontree.Object {
	t.Helper()
	v, err := jsontree.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v.(*jsontree.Object)
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp2, err := http.Get(srv.URL + "/v1/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var info struct {
		Supported []string `json:"supported_project_versions"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"4.0", "9.0"}, info.Supported); diff != "" {
		t.Errorf("supported versions mismatch (-want +got):\n%s", diff)
	}
}

func TestXYScale(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/xyscale?factor=0.5", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	out := decodeTree(t, resp)
	if w, _ := out.Float("width"); w != 960 {
		t.Errorf("width = %v, want 960", w)
	}

	again := post(t, srv, "/v1/xyscale?factor=0.5", doc)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestTimeScalePreserveAudio(t *testing.T) {
	srv := newTestServer(t)

	durations := func(path string) []float64 {
		resp := post(t, srv, path, doc)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
		out := decodeTree(t, resp)
		tl, _ := out.Object("timeline")
		st, _ := tl.Object("sceneTrack")
		scenes, _ := st.Array("scenes")
		csml, _ := scenes[0].(*jsontree.Object).Object("csml")
		tracks, _ := csml.Array("tracks")
		medias, _ := tracks[0].(*jsontree.Object).Array("medias")
		var ds []float64
		for _, m := range medias {
			d, _ := m.(*jsontree.Object).Float("duration")
			ds = append(ds, d)
		}
		return ds
	}

	if diff := cmp.Diff([]float64{200, 50}, durations("/v1/timescale?factor=2")); diff != "" {
		t.Errorf("default preserve mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{200, 100}, durations("/v1/timescale?factor=2&preserve_audio=false")); diff != "" {
		t.Errorf("no preserve mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"missing factor", "/v1/xyscale", doc, http.StatusBadRequest, errors.ErrCodeInvalidFactor},
		{"zero factor", "/v1/xyscale?factor=0", doc, http.StatusBadRequest, errors.ErrCodeInvalidFactor},
		{"text factor", "/v1/timescale?factor=fast", doc, http.StatusBadRequest, errors.ErrCodeInvalidFactor},
		{"bad bool", "/v1/xyscale?factor=2&ensure_ascii=perhaps", doc, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad json", "/v1/xyscale?factor=2", `{"width":`, http.StatusBadRequest, errors.ErrCodeParse},
		{"array root", "/v1/xyscale?factor=2", `[]`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"strict version", "/v1/xyscale?factor=2&strict_version=true", `{"version": "2.0"}`, http.StatusUnprocessableEntity, errors.ErrCodeUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, resp); got.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", got.Code, tt.code, got.Message)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := New(nil, nil)
	s.MaxBody = 16
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp := post(t, srv, "/v1/xyscale?factor=2", doc)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name  string
		path  string
		body  string
		valid bool
		errs  int
	}{
		{"valid", "/v1/validate", doc, true, 0},
		{"wrong types", "/v1/validate", `{"version": "9.0", "width": "wide", "sourceBin": {}}`, false, 2},
		{"lenient version", "/v1/validate", `{"version": "2.0"}`, true, 0},
		{"strict version", "/v1/validate?strict_version=true", `{"version": "2.0"}`, false, 1},
		{"not an object", "/v1/validate", `"text"`, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var got ValidateResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Valid != tt.valid || len(got.Errors) != tt.errs {
				t.Errorf("valid=%v errors=%v, want valid=%v with %d errors", got.Valid, got.Errors, tt.valid, tt.errs)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/v1/info?mode=analyze", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var rep struct {
		Mode     string `json:"mode"`
		Timeline struct {
			Tracks int `json:"tracks"`
			Clips  int `json:"clips"`
		} `json:"timeline"`
		Media struct {
			Total   int      `json:"total"`
			Missing []string `json:"missing"`
		} `json:"media"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Mode != "analyze" || rep.Timeline.Tracks != 1 || rep.Timeline.Clips != 2 || rep.Media.Total != 1 {
		t.Errorf("unexpected report: %+v", rep)
	}
	if len(rep.Media.Missing) != 0 {
		t.Errorf("server checked local files: %v", rep.Media.Missing)
	}

	yresp := post(t, srv, "/v1/info?format=yaml", doc)
	if ct := yresp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	var y map[string]any
	if err := yaml.NewDecoder(yresp.Body).Decode(&y); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if y["mode"] != "info" {
		t.Errorf("yaml mode = %v, want info", y["mode"])
	}

	again := post(t, srv, "/v1/info?mode=analyze", doc)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second report X-Cache = %q, want hit", got)
	}

	bad := post(t, srv, "/v1/info?mode=deep", doc)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", bad.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopAPIHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestAPIHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetAPIHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t)
	post(t, srv, "/v1/xyscale?factor=2", doc)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if diff := cmp.Diff([]string{"POST /v1/xyscale"}, hooks.routes); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}
