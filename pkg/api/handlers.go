package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/tscproj/pkg/analysis"
	"github.com/matzehuels/tscproj/pkg/buildinfo"
	"github.com/matzehuels/tscproj/pkg/cache"
	"github.com/matzehuels/tscproj/pkg/errors"
	"github.com/matzehuels/tscproj/pkg/jsontree"
	"github.com/matzehuels/tscproj/pkg/observability"
	"github.com/matzehuels/tscproj/pkg/pipeline"
	"github.com/matzehuels/tscproj/pkg/project"
	"github.com/matzehuels/tscproj/pkg/version"
)

// ValidateResponse is the body of /v1/validate.
type ValidateResponse struct {
	Valid    bool        `json:"valid"`
	Version  string      `json:"version"`
	Detected version.Tag `json:"detected_version"`
	Errors   []string    `json:"errors"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleTransform(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.transformOptions(r, op)
		if err != nil {
			s.writeError(w, err)
			return
		}
		body, err := s.readBody(w, r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		res, err := s.Runner.Transform(r.Context(), body, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}

		cacheStatus := "miss"
		if res.CacheInfo.TransformHit {
			cacheStatus = "hit"
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", cacheStatus)
		w.Header().Set("X-Document-Hash", res.DocHash)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Data)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	strict, err := boolParam(q.Get("strict_version"), s.Defaults.StrictVersion)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tree, err := project.ParseDocument(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := ValidateResponse{Detected: version.Detect(tree), Errors: []string{}}
	doc, ok := tree.(*jsontree.Object)
	if !ok {
		resp.Errors = append(resp.Errors, "project must be a dictionary")
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Version, _ = doc.Text("version")
	resp.Errors = append(resp.Errors, project.ValidateStructure(doc)...)
	if strict {
		if err := project.CheckVersion(doc); err != nil {
			resp.Errors = append(resp.Errors, errors.UserMessage(err))
		}
	}
	resp.Valid = len(resp.Errors) == 0
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := analysis.ModeInfo
	switch q.Get("mode") {
	case "", "info":
	case "analyze":
		mode = analysis.ModeAnalyze
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "mode must be info or analyze"))
		return
	}
	format := analysis.FormatJSON
	if f := q.Get("format"); f != "" {
		parsed, err := analysis.ParseFormat(f)
		if err != nil || parsed == analysis.FormatText {
			s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "format must be json or yaml"))
			return
		}
		format = parsed
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rep, hit, err := s.report(r.Context(), body, mode)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}

	if format == analysis.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	if err := analysis.Encode(w, rep, format); err != nil {
		s.Logger.Warn("encode report", "error", err)
	}
}

// report analyzes body without touching the filesystem. Reports are
// cached by document hash and mode.
func (s *Server) report(ctx context.Context, body []byte, mode analysis.Mode) (*analysis.Report, bool, error) {
	key := s.Runner.Keyer.ReportKey(cache.Hash(body), cache.ReportKeyOpts{Mode: mode.String()})
	if data, hit, err := s.Runner.Cache.Get(ctx, key); err == nil && hit {
		var rep analysis.Report
		if err := json.Unmarshal(data, &rep); err == nil {
			observability.Cache().OnCacheHit(ctx, "report")
			return &rep, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "report")

	p, err := project.NewLoader(s.Logger).Load(body)
	if err != nil {
		return nil, false, err
	}
	a := analysis.New(mode, s.Logger)
	a.SkipFiles = true
	rep, err := a.Analyze(ctx, p, "")
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(rep); err == nil {
		if err := s.Runner.Cache.Set(ctx, key, data, cache.TTLReport); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return rep, false, nil
}

func (s *Server) transformOptions(r *http.Request, op string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Operation:     op,
		Indent:        s.Defaults.Indent,
		EnsureASCII:   s.Defaults.EnsureASCII,
		StrictVersion: s.Defaults.StrictVersion,
		PreserveAudio: s.Defaults.PreserveAudio,
		Logger:        s.Logger,
	}

	raw := q.Get("factor")
	if raw == "" {
		return opts, errors.New(errors.ErrCodeInvalidFactor, "factor query parameter is required")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return opts, errors.New(errors.ErrCodeInvalidFactor, "factor must be a number, got %q", raw)
	}
	opts.Factor = f

	if v := q.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "indent must be an integer, got %q", v)
		}
		opts.Indent = n
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"ensure_ascii", &opts.EnsureASCII},
		{"strict_version", &opts.StrictVersion},
		{"preserve_audio", &opts.PreserveAudio},
		{"refresh", &opts.Refresh},
	} {
		v, err := boolParam(q.Get(b.name), *b.dst)
		if err != nil {
			return opts, err
		}
		*b.dst = v
	}

	if err := opts.ValidateForTransform(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFactor,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeParse:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidStructure, errors.ErrCodeUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeMediaNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.Logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
