package server

import (
	stderrors "errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/TuanAnhhh123/M26-HKT/internal/assets"
	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
	"github.com/TuanAnhhh123/M26-HKT/internal/middleware"
	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

// handleHistory serves deep links. In web history mode the request path is
// the route: matches render the shell and redirects answer 302. In hash
// mode the route lives in the fragment, so the document root serves the
// shell and any other path is redirected to its hash href.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.resolver.History()

	// Path relative to the mount base, regardless of history mode.
	path := router.NewWebHistory(history.Base()).Location(r.URL)

	if history.Mode() == router.HistoryHash {
		if path == "/" {
			s.serveShell(w, r, "", "")
			return
		}
		res, ok := s.tracing.Resolve(r.Context(), s.resolver, path)
		if !ok {
			s.fail(w, r, errors.New("E204").WithDetailf("%q", path))
			return
		}
		http.Redirect(w, r, s.resolver.HrefOf(res), http.StatusFound)
		return
	}

	res, ok := s.tracing.Resolve(r.Context(), s.resolver, path)
	if !ok {
		s.fail(w, r, errors.New("E204").WithDetailf("%q", path))
		return
	}
	if res.Redirected() {
		http.Redirect(w, r, s.resolver.HrefOf(res), http.StatusFound)
		return
	}
	s.serveShell(w, r, string(res.View()), res.Path)
}

func (s *Server) serveShell(w http.ResponseWriter, r *http.Request, view, route string) {
	var (
		doc []byte
		err error
	)
	if view == "" {
		doc, err = s.shell.Document(r.Context())
	} else {
		doc, err = s.shell.Render(r.Context(), view, route)
	}
	if err != nil {
		if stderrors.Is(err, assets.ErrNotFound) {
			s.fail(w, r, errors.New("E300").WithDetail(assets.ShellName))
			return
		}
		s.logger.Error("shell unavailable", "source", s.source.Kind(), "error", err)
		s.fail(w, r, errors.FromError(err, "E301"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(doc)
	}
}

// fail writes err as plain text and records it on the request span.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err *errors.CodedError) {
	span := middleware.SpanFromRequest(r)
	span.RecordError(err)
	span.SetAttributes(attribute.String("hkt.error_code", err.Code))
	http.Error(w, err.Error(), err.HTTPStatus())
}
