package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/buildinfo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/layout"
	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/render/nodelink"
	"github.com/matzehuels/algotrace/pkg/session"
)

// =============================================================================
// Response types
// =============================================================================

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
	Field string      `json:"field,omitempty"`
}

type algorithmResponse struct {
	Name       string      `json:"name"`
	Title      string      `json:"title"`
	Family     algo.Family `json:"family"`
	Kind       algo.Kind   `json:"kind"`
	IntervalMS int64       `json:"interval_ms"`
}

type layoutResponse struct {
	Algorithm string     `json:"algorithm"`
	Nodes     []string   `json:"nodes"`
	Positions layout.Map `json:"positions"`
}

type sessionResponse struct {
	ID        string            `json:"id"`
	Algorithm string            `json:"algorithm"`
	Instance  instance.Instance `json:"instance"`
	Layout    layout.Map        `json:"layout,omitempty"`
	State     stateResponse     `json:"state"`
}

type stateResponse struct {
	playback.Snapshot
	Error string      `json:"error,omitempty"`
	Code  errors.Code `json:"code,omitempty"`
}

func state(snap playback.Snapshot) stateResponse {
	st := stateResponse{Snapshot: snap}
	if snap.Err != nil {
		st.Error = errors.UserMessage(snap.Err)
		st.Code = errors.GetCode(snap.Err)
	}
	return st
}

func describe(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Algorithm: sess.Algorithm,
		Instance:  sess.Instance,
		Layout:    sess.Layout,
		State:     state(sess.Controller.Snapshot()),
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	all := algo.All()
	out := make([]algorithmResponse, len(all))
	for i, a := range all {
		out[i] = algorithmResponse{
			Name:       a.Name,
			Title:      a.Title,
			Family:     a.Family,
			Kind:       a.Kind,
			IntervalMS: a.Interval.Milliseconds(),
		}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Prepare(opts)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res.Instance)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Layout(opts)
	if err != nil {
		s.respondErr(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == pipeline.FormatJSON {
		positions := res.Layout
		if positions == nil {
			positions = layout.Map{}
		}
		s.respondJSON(w, http.StatusOK, layoutResponse{
			Algorithm: res.Instance.Algorithm,
			Nodes:     res.Instance.Nodes(),
			Positions: positions,
		})
		return
	}

	data, err := pipeline.Render(res, format, nodelink.Options{})
	if err != nil {
		s.respondErr(w, err)
		return
	}
	switch format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	sess, err := s.runner.NewSession(r.Context(), s.store, opts)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	s.respondJSON(w, http.StatusCreated, describe(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, describe(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePlay blocks until the trace has loaded, so the response reflects
// the first frame or the fetch failure.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	err := sess.Play(r.Context())
	s.control(w, sess, err)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.control(w, sess, sess.Controller.Pause())
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.control(w, sess, sess.Controller.Replay())
}

// control answers a control verb. A fetch failure has already moved the
// session to Error, which the returned state reports.
func (s *Server) control(w http.ResponseWriter, sess *session.Session, err error) {
	if err != nil && !errors.IsTransport(err) {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, state(sess.Controller.Snapshot()))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Error: "request body must be a JSON object with algorithm and input",
			Code:  errors.ErrCodeInvalidInput,
		})
		return opts, false
	}
	return opts, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	resp := errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
		Field: errors.GetField(err),
	}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	s.respondJSON(w, status, resp)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeSessionNotFound, code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported, code == errors.ErrCodeStaleSession:
		return http.StatusConflict
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.IsTransport(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
