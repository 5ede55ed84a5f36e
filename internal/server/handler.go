// Package server exposes validation over HTTP. The handler is transport
// agnostic; HTTP3Server serves it over QUIC.
package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tam-lang/tam/internal/check"
	"github.com/tam-lang/tam/internal/cli"
	"github.com/tam-lang/tam/internal/errors"
)

// MaxSourceBytes caps the size of a submitted source.
const MaxSourceBytes int64 = 1 << 20

// CheckResponse is the body returned by POST /v1/check.
type CheckResponse struct {
	RunID    string   `json:"run_id"`
	Name     string   `json:"name"`
	OK       bool     `json:"ok"`
	Declared []string `json:"declared"`
	Error    string   `json:"error,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Code     string   `json:"code,omitempty"`
	Line     int      `json:"line,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Handler returns the HTTP API. A nil logger discards output.
func Handler(logger *cli.Logger) http.Handler {
	if logger == nil {
		logger = cli.Discard()
	}
	checker := check.New(nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/check", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		handleCheck(w, r, checker, logger)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cli.GetVersionInfo())
	})
	return mux
}

func handleCheck(w http.ResponseWriter, r *http.Request, checker *check.Checker, logger *cli.Logger) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "request.tk"
	}
	runID := uuid.NewString()

	buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSourceBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			rerr := errors.RequestTooLarge(MaxSourceBytes)
			logger.Warn("run %s: %s rejected: %v", runID, name, rerr)
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: rerr.Error(), Code: rerr.Code})
			return
		}
		logger.Warn("run %s: %s: read body: %v", runID, name, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result := checker.CheckSource(name, bytes.NewReader(buf))

	resp := CheckResponse{
		RunID:    runID,
		Name:     name,
		OK:       result.OK,
		Declared: result.Declared,
	}
	if result.Err != nil {
		resp.Declared = []string{}
		resp.Error = result.Err.Error()
		resp.Kind = string(result.Category)
		resp.Code = errors.Code(result.Err)
		resp.Line = errors.Line(result.Err)
	}
	logger.Info("run %s: %s ok=%t", runID, name, resp.OK)

	// A source that fails validation is still a successful request.
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
