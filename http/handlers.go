package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/relistan/shorten"
)

// dataResponse wraps successful responses.
type dataResponse struct {
	Data any `json:"data"`
}

// errorResponse wraps failed responses.
type errorResponse struct {
	Error string `json:"error"`
}

// resizeResponse reports the outcome of an on-demand resize.
type resizeResponse struct {
	Evicted bool                `json:"evicted"`
	Stats   shorten.FilterStats `json:"stats"`
}

func (s *Server) handleShorten(w http.ResponseWriter, r *http.Request) {
	link, err := s.shortener.Shorten(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: link})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	link, err := s.shortener.Lookup(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: link})
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	url, err := s.shortener.Resolve(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", url)
	w.WriteHeader(http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFilterStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Data: s.filter.Stats()})
}

func (s *Server) handleFilterResize(w http.ResponseWriter, r *http.Request) {
	evicted := s.filter.Resize()
	stats := s.filter.Stats()
	s.logger.Info("filter resized on demand",
		"segments", stats.Segments,
		"capacity", stats.LastCapacity,
		"evicted", evicted,
	)
	writeJSON(w, http.StatusOK, dataResponse{Data: resizeResponse{Evicted: evicted, Stats: stats}})
}

// writeError maps an application error code to an HTTP status. Internal
// errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := shorten.ErrorCode(err)
	status := errorStatus(code)
	if code == shorten.EINTERNAL {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"err", err,
		)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: shorten.ErrorMessage(err)})
}

func errorStatus(code string) int {
	switch code {
	case shorten.EINVALID:
		return http.StatusBadRequest
	case shorten.ENOTFOUND:
		return http.StatusNotFound
	case shorten.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
