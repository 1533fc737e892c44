package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tscproj/pkg/config"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/store"
)

const demoDoc = `{
  "version": "9.0",
  "editRate": 705600000,
  "width": 1920,
  "height": 1080,
  "sourceBin": [
    {"id": 1, "src": "clip.mp4", "sourceTracks": [{"type": 0}]},
    {"id": 2, "src": "music.wav", "sourceTracks": [{"type": 2}]},
    {"id": 3, "src": "logo.png", "sourceTracks": [{"type": 1}]}
  ],
  "timeline": {
    "parameters": {"toc": {"keyframes": [{"time": 705600000, "value": "Intro"}]}},
    "sceneTrack": {"scenes": [{"csml": {"tracks": [
      {"trackIndex": 0, "medias": [
        {"id": 10, "_type": "VMFile", "src": 1, "start": 0, "duration": 1411200000}
      ]},
      {"trackIndex": 1, "medias": [
        {"id": 11, "_type": "IMFile", "src": 3, "start": 0, "duration": 705600000}
      ]}
    ]}}]}
  }
}`

// newTestCLI returns a CLI with default settings, a temporary cache and an
// in-memory report store. Confirmation prompts are answered with yes.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	loaded, err := config.LoadFiles("", "")
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	loaded.CacheDir = t.TempDir()

	c := New(io.Discard, LogInfo)
	c.Config = loaded
	c.Confirm = func(string) (bool, error) { return true, nil }
	c.Store = store.NewMemoryStore()
	return c
}

// run executes args against a fresh root command and returns what the
// command printed.
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, io.Discard
	defer func() { stdout, stderr = oldOut, oldErr }()

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeDemo writes demo.tscproj and two of its three media files into a
// temporary directory and returns the project path.
func writeDemo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clip.mp4"), string(make([]byte, 2048)))
	writeFile(t, filepath.Join(dir, "logo.png"), string(make([]byte, 100)))
	path := filepath.Join(dir, "demo.tscproj")
	writeFile(t, path, demoDoc)
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func load(t *testing.T, path string) *project.Project {
	t.Helper()
	p, err := project.NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(%s): %v", path, err)
	}
	return p
}

func wantContains(t *testing.T, out string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := errors.GetCode(err); got != code {
		t.Errorf("error code = %q, want %q (err: %v)", got, code, err)
	}
}

func TestInfo(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	out, err := run(t, c, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	wantContains(t, out, path, "9.0", "1920x1080", "Media", "Unused")
}

func TestInfoDetailed(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	out, err := run(t, c, "info", path, "--detailed")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	wantContains(t, out, "clip.mp4", "music.wav", "logo.png")
}

func TestInfoJSON(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	out, err := run(t, c, "info", path, "--format", "json")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var got struct {
		Version  string `json:"version"`
		EditRate int64  `json:"edit_rate"`
		Media    struct {
			Total  int `json:"total"`
			Unused int `json:"unused"`
		} `json:"media"`
		Timeline struct {
			Markers int `json:"markers"`
		} `json:"timeline"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("info output is not JSON: %v\n%s", err, out)
	}
	if got.Version != "9.0" || got.EditRate != 705600000 {
		t.Errorf("version/edit rate = %q/%d", got.Version, got.EditRate)
	}
	if got.Media.Total != 3 || got.Media.Unused != 1 {
		t.Errorf("media = %+v, want 3 total and 1 unused", got.Media)
	}
	if got.Timeline.Markers != 1 {
		t.Errorf("markers = %d, want 1", got.Timeline.Markers)
	}
}

func TestInfoErrors(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.tscproj")
	writeFile(t, broken, `{"version": "9.0",`)

	_, err := run(t, c, "info", filepath.Join(dir, "missing.tscproj"))
	wantCode(t, err, errors.ErrCodeFileNotFound)

	_, err = run(t, c, "info", broken)
	wantCode(t, err, errors.ErrCodeParse)

	_, err = run(t, c, "info", writeDemo(t), "--format", "xml")
	wantCode(t, err, errors.ErrCodeInvalidFormat)
}

func TestValidate(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.tscproj")
	writeFile(t, invalid, `{"version": "9.0", "width": "wide", "sourceBin": "none"}`)
	old := filepath.Join(dir, "old.tscproj")
	writeFile(t, old, `{"version": "3.0", "editRate": 30}`)
	list := filepath.Join(dir, "list.tscproj")
	writeFile(t, list, `[1, 2]`)

	t.Run("valid", func(t *testing.T) {
		out, err := run(t, c, "validate", writeDemo(t))
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		wantContains(t, out, "is valid", "version 9.0")
	})

	t.Run("structural problems", func(t *testing.T) {
		_, err := run(t, c, "validate", invalid)
		wantCode(t, err, errors.ErrCodeInvalidStructure)
		ve := validationErrors(err)
		if ve == nil {
			t.Fatalf("expected validation errors, got %v", err)
		}
		want := []string{"sourceBin must be a list", "width must be a number"}
		if diff := cmp.Diff(want, ve.Errors); diff != "" {
			t.Errorf("problems mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lenient version", func(t *testing.T) {
		if _, err := run(t, c, "validate", old); err != nil {
			t.Errorf("validate without --strict: %v", err)
		}
	})

	t.Run("strict version", func(t *testing.T) {
		_, err := run(t, c, "validate", old, "--strict")
		wantCode(t, err, errors.ErrCodeUnsupportedVersion)
	})

	t.Run("non-object root", func(t *testing.T) {
		_, err := run(t, c, "validate", list)
		wantCode(t, err, errors.ErrCodeInvalidStructure)
	})
}

func TestReportErrorListsProblems(t *testing.T) {
	c := newTestCLI(t)
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	err := errors.Wrap(errors.ErrCodeInvalidStructure,
		&errors.ValidationError{Errors: []string{"width must be a number"}},
		"demo.tscproj has 1 structural problem")
	c.ReportError(err)

	wantContains(t, out.String(), "demo.tscproj has 1 structural problem", "width must be a number")
}

func TestXYScaleInPlace(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	out, err := run(t, c, "xyscale", path, "2")
	if err != nil {
		t.Fatalf("xyscale: %v", err)
	}
	wantContains(t, out, "Applied xyscale", "backup:")

	p := load(t, path)
	if p.Canvas.Width != 3840 || p.Canvas.Height != 2160 {
		t.Errorf("canvas = %gx%g, want 3840x2160", p.Canvas.Width, p.Canvas.Height)
	}
	backup := load(t, path+project.BackupSuffix)
	if backup.Canvas.Width != 1920 {
		t.Errorf("backup width = %g, want 1920", backup.Canvas.Width)
	}
}

func TestXYScaleNoBackup(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	if _, err := run(t, c, "xyscale", path, "1.5", "--no-backup"); err != nil {
		t.Fatalf("xyscale: %v", err)
	}
	if _, err := os.Stat(path + project.BackupSuffix); !os.IsNotExist(err) {
		t.Errorf("backup written despite --no-backup (stat err: %v)", err)
	}
}

func TestTimeScaleToOutput(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)
	output := filepath.Join(t.TempDir(), "slow.tscproj")

	if _, err := run(t, c, "timescale", path, "2", "-o", output); err != nil {
		t.Fatalf("timescale: %v", err)
	}

	p := load(t, output)
	tracks := project.Tracks(p.Timeline)
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	dur, _ := tracks[0].Medias[0].Float("duration")
	if dur != 2822400000 {
		t.Errorf("clip duration = %g, want 2822400000", dur)
	}
	if p.Metadata.EditRate != 705600000 {
		t.Errorf("edit rate = %d, want unchanged", p.Metadata.EditRate)
	}

	in := load(t, path)
	if d, _ := project.Tracks(in.Timeline)[0].Medias[0].Float("duration"); d != 1411200000 {
		t.Errorf("input modified: duration = %g", d)
	}
	if _, err := os.Stat(path + project.BackupSuffix); !os.IsNotExist(err) {
		t.Error("backup written for a separate output")
	}
}

func TestTransformInvalidFactor(t *testing.T) {
	c := newTestCLI(t)
	path := writeDemo(t)

	for _, factor := range []string{"abc", "0", "-1", "-0.5", "-2e3"} {
		_, err := run(t, c, "xyscale", path, factor)
		wantCode(t, err, errors.ErrCodeInvalidFactor)
		_, err = run(t, c, "timescale", path, factor)
		wantCode(t, err, errors.ErrCodeInvalidFactor)
	}
	if len(load(t, path).SourceBin) != 3 {
		t.Error("rejected factor modified the project")
	}

	// Unknown flags that are not numbers keep the parser's error.
	_, err := run(t, c, "xyscale", path, "2", "-z")
	if err == nil || errors.GetCode(err) != "" {
		t.Errorf("xyscale -z: error = %v, want a plain flag error", err)
	}
}

func TestParseFactor(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"2", 2, false},
		{"1e-3", 0.001, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		got, err := parseFactor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFactor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFactor(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestBatch(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tscproj"), demoDoc)
	writeFile(t, filepath.Join(dir, "b.tscproj"), demoDoc)

	out, err := run(t, c, "batch", filepath.Join(dir, "*.tscproj"), "xyscale", "2")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	wantContains(t, out, "[1/2]", "[2/2]", "Summary", "Successful")

	for _, name := range []string{"a.scaled.tscproj", "b.scaled.tscproj"} {
		p := load(t, filepath.Join(dir, name))
		if p.Canvas.Width != 3840 {
			t.Errorf("%s width = %g, want 3840", name, p.Canvas.Width)
		}
	}
	if p := load(t, filepath.Join(dir, "a.tscproj")); p.Canvas.Width != 1920 {
		t.Error("batch overwrote its input")
	}
}

func TestBatchFailures(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.tscproj"), demoDoc)
	writeFile(t, filepath.Join(dir, "bad.tscproj"), `{not json`)

	out, err := run(t, c, "batch", filepath.Join(dir, "*.tscproj"), "info")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("batch error = %v, want 1 of 2 files failed", err)
	}
	wantContains(t, out, "bad.tscproj", "good.tscproj")
}

func TestBatchArguments(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tscproj"), demoDoc)
	pattern := filepath.Join(dir, "*.tscproj")

	_, err := run(t, c, "batch", pattern, "rotate")
	wantCode(t, err, errors.ErrCodeInvalidInput)

	_, err = run(t, c, "batch", pattern, "timescale")
	wantCode(t, err, errors.ErrCodeInvalidFactor)

	_, err = run(t, c, "batch", pattern, "xyscale", "-2")
	wantCode(t, err, errors.ErrCodeInvalidFactor)

	_, err = run(t, c, "batch", filepath.Join(dir, "*.cmproj"), "info")
	wantCode(t, err, errors.ErrCodeFileNotFound)
}

func TestBatchConfirmDeclined(t *testing.T) {
	c := newTestCLI(t)
	c.Config.ConfirmThreshold = 1
	var asked string
	c.Confirm = func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tscproj"), demoDoc)
	writeFile(t, filepath.Join(dir, "b.tscproj"), demoDoc)

	out, err := run(t, c, "batch", filepath.Join(dir, "*.tscproj"), "xyscale", "2")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if asked != "Process 2 files with xyscale?" {
		t.Errorf("prompt = %q", asked)
	}
	wantContains(t, out, "Cancelled")
	if _, err := os.Stat(filepath.Join(dir, "a.scaled.tscproj")); !os.IsNotExist(err) {
		t.Error("declined batch wrote output")
	}

	asked = ""
	if _, err := run(t, c, "batch", filepath.Join(dir, "*.tscproj"), "info", "--yes"); err != nil {
		t.Fatalf("batch --yes: %v", err)
	}
	if asked != "" {
		t.Errorf("--yes still asked %q", asked)
	}
}
