package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

// routeJSON describes one table entry.
type routeJSON struct {
	Pattern  string `json:"pattern"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind"`
	View     string `json:"view,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	CatchAll bool   `json:"catchAll,omitempty"`
	Href     string `json:"href,omitempty"`
}

// resolutionJSON describes a resolution.
type resolutionJSON struct {
	Path           string        `json:"path"`
	Query          string        `json:"query,omitempty"`
	Name           string        `json:"name,omitempty"`
	View           string        `json:"view"`
	RedirectedFrom string        `json:"redirectedFrom,omitempty"`
	Hops           int           `json:"hops"`
	Params         router.Params `json:"params,omitempty"`
	Href           string        `json:"href"`
}

func (s *Server) resolutionJSON(res router.Resolution) resolutionJSON {
	return resolutionJSON{
		Path:           res.Path,
		Query:          res.Query,
		Name:           res.Name(),
		View:           string(res.View()),
		RedirectedFrom: res.RedirectedFrom,
		Hops:           res.Hops,
		Params:         res.Params,
		Href:           s.resolver.HrefOf(res),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	entries := s.resolver.Table().Entries()
	out := make([]routeJSON, 0, len(entries))
	for _, e := range entries {
		rj := routeJSON{
			Pattern:  e.Pattern,
			Name:     e.Name,
			Kind:     e.Target.Kind.String(),
			View:     string(e.Target.View),
			Redirect: e.Target.Redirect,
			CatchAll: e.IsCatchAll(),
		}
		if e.Name != "" {
			if href, err := s.resolver.Href(e.Name, nil); err == nil {
				rj.Href = href
			}
		}
		out = append(out, rj)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, errors.New("E203").
			WithDetail("missing path query parameter").
			WithSuggestion("Call /api/resolve?path=/manager-user"))
		return
	}

	res, ok := s.tracing.Resolve(r.Context(), s.resolver, path)
	if !ok {
		writeError(w, errors.New("E204").WithDetailf("%q", path))
		return
	}
	writeJSON(w, http.StatusOK, s.resolutionJSON(res))
}

func (s *Server) handleNavigateNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	res, err := s.resolver.ResolveName(name, router.Params(r.URL.Query()))
	if err != nil {
		writeError(w, navigationError(err))
		return
	}
	writeJSON(w, http.StatusOK, s.resolutionJSON(res))
}

// navigationError maps router errors to coded errors.
func navigationError(err error) *errors.CodedError {
	switch {
	case stderrors.Is(err, router.ErrUnknownRoute):
		return errors.New("E201").Wrap(err)
	case stderrors.Is(err, router.ErrMissingParam):
		return errors.New("E202").Wrap(err)
	default:
		return errors.FromError(err, "E203")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *errors.CodedError) {
	writeJSON(w, err.HTTPStatus(), map[string]any{"error": err})
}
