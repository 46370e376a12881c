package server

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
	"github.com/TuanAnhhh123/M26-HKT/pkg/routepath"
	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

const (
	maxNavMessageSize = 4096
	navWriteTimeout   = 10 * time.Second
)

// Navigation message types.
const (
	msgNavigate = "navigate"
	msgBack     = "back"
	msgForward  = "forward"
	msgGo       = "go"
	msgLocation = "location"
	msgError    = "error"
)

// navRequest is a client navigation message.
type navRequest struct {
	Type    string            `json:"type"`
	Path    string            `json:"path,omitempty"`
	Name    string            `json:"name,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Replace bool              `json:"replace,omitempty"`
	Delta   int               `json:"delta,omitempty"`
}

// navReply is a server frame.
type navReply struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`

	Path           string `json:"path,omitempty"`
	Name           string `json:"name,omitempty"`
	View           string `json:"view,omitempty"`
	Href           string `json:"href,omitempty"`
	RedirectedFrom string `json:"redirectedFrom,omitempty"`
	Changed        bool   `json:"changed,omitempty"`
	Index          int    `json:"index"`
	Length         int    `json:"length"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// navSession is one WebSocket client and its history.
type navSession struct {
	id     string
	conn   *websocket.Conn
	nav    *router.Navigator
	server *Server
	logger *slog.Logger
}

// handleNavigateWS upgrades the connection and runs a navigation session.
// The optional "path" query parameter sets the initial location; clients
// pass the route of the page they were served so the first frame matches
// it.
func (s *Server) handleNavigateWS(w http.ResponseWriter, r *http.Request) {
	initial := r.URL.Query().Get("path")
	if initial == "" {
		initial = "/"
	}
	if err := routepath.ValidateNavPath(initial); err != nil {
		writeError(w, errors.New("E203").Wrap(err).WithDetailf("%q", initial))
		return
	}
	nav, err := router.NewNavigator(s.resolver, initial)
	if err != nil {
		writeError(w, errors.New("E204").Wrap(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.recordWSError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := &navSession{
		id:     uuid.NewString(),
		conn:   conn,
		nav:    nav,
		server: s,
	}
	sess.logger = s.logger.With("session", sess.id)

	s.sessions.Add(1)
	if s.metrics != nil {
		s.metrics.RecordSessionOpen()
	}
	defer func() {
		s.sessions.Add(-1)
		if s.metrics != nil {
			s.metrics.RecordSessionClose()
		}
		conn.Close()
		sess.logger.Debug("navigation session closed")
	}()

	sess.logger.Debug("navigation session opened", "path", initial)
	sess.run()
}

func (s *Server) recordWSError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}

func (ns *navSession) run() {
	ns.conn.SetReadLimit(maxNavMessageSize)

	if err := ns.send(ns.locationReply(ns.nav.Current(), true)); err != nil {
		return
	}

	for {
		var req navRequest
		if err := ns.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ns.server.recordWSError("read")
				ns.logger.Warn("navigation read failed", "error", err)
			}
			return
		}

		if ns.server.metrics != nil {
			ns.server.metrics.RecordNavigation(navKind(req.Type))
		}

		reply := ns.handle(req)
		if err := ns.send(reply); err != nil {
			ns.server.recordWSError("write")
			return
		}
	}
}

// handle applies one navigation message and returns the reply frame.
func (ns *navSession) handle(req navRequest) navReply {
	switch req.Type {
	case msgNavigate:
		var opts []router.NavigateOption
		if req.Replace {
			opts = append(opts, router.WithReplace())
		}

		var (
			loc     router.Location
			changed bool
			err     error
		)
		if req.Name != "" {
			params := make(router.Params, len(req.Params))
			for k, v := range req.Params {
				params[k] = []string{v}
			}
			loc, changed, err = ns.nav.PushNamed(req.Name, params, opts...)
		} else {
			if perr := routepath.ValidateNavPath(req.Path); perr != nil {
				return errorReply(errors.New("E203").Wrap(perr).WithDetailf("%q", req.Path))
			}
			loc, changed, err = ns.nav.Push(req.Path, opts...)
		}
		if err != nil {
			return errorReply(navigationError(err))
		}
		return ns.locationReply(loc, changed)

	case msgBack:
		loc, changed := ns.nav.Back()
		return ns.locationReply(loc, changed)

	case msgForward:
		loc, changed := ns.nav.Forward()
		return ns.locationReply(loc, changed)

	case msgGo:
		loc, changed := ns.nav.Go(req.Delta)
		return ns.locationReply(loc, changed)

	default:
		return errorReply(errors.New("E312").WithDetailf("%q", req.Type))
	}
}

// navKind bounds the metric label to the known message types.
func navKind(typ string) string {
	switch typ {
	case msgNavigate, msgBack, msgForward, msgGo:
		return typ
	}
	return "unknown"
}

func (ns *navSession) locationReply(loc router.Location, changed bool) navReply {
	return navReply{
		Type:           msgLocation,
		Session:        ns.id,
		Path:           loc.FullPath(),
		Name:           loc.Name(),
		View:           string(loc.View()),
		Href:           loc.Href,
		RedirectedFrom: loc.RedirectedFrom,
		Changed:        changed,
		Index:          ns.nav.Index(),
		Length:         ns.nav.Len(),
	}
}

func errorReply(err *errors.CodedError) navReply {
	return navReply{
		Type:    msgError,
		Code:    err.Code,
		Message: err.Error(),
	}
}

func (ns *navSession) send(reply navReply) error {
	ns.conn.SetWriteDeadline(time.Now().Add(navWriteTimeout))
	err := ns.conn.WriteJSON(reply)
	if err != nil && !stderrors.Is(err, websocket.ErrCloseSent) {
		ns.logger.Debug("navigation write failed", "error", err)
	}
	return err
}
