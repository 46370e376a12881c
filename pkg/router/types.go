package router

import (
	"errors"
	"strings"
)

// ViewID identifies a view component the client renders for a route.
type ViewID string

// TargetKind tells which variant a Target holds.
type TargetKind int

const (
	// TargetView renders a view.
	TargetView TargetKind = iota + 1

	// TargetRedirect sends the navigation to another path.
	TargetRedirect
)

// String returns the kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetView:
		return "view"
	case TargetRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Target is what a route entry leads to: either a view or a redirect path.
type Target struct {
	Kind     TargetKind
	View     ViewID
	Redirect string
}

// View returns a Target that renders the given view.
func View(id ViewID) Target {
	return Target{Kind: TargetView, View: id}
}

// RedirectTo returns a Target that redirects to path.
func RedirectTo(path string) Target {
	return Target{Kind: TargetRedirect, Redirect: path}
}

// IsRedirect reports whether the target is a redirect.
func (t Target) IsRedirect() bool {
	return t.Kind == TargetRedirect
}

// String returns a short human-readable form ("view Dashboard", "redirect /").
func (t Target) String() string {
	switch t.Kind {
	case TargetView:
		return "view " + string(t.View)
	case TargetRedirect:
		return "redirect " + t.Redirect
	default:
		return "invalid target"
	}
}

// Entry is one row of a route table.
type Entry struct {
	// Pattern is the path template (e.g. "/manager-user", "/:pathMatch(.*)*").
	Pattern string

	// Name identifies the route for programmatic navigation. Optional.
	Name string

	// Target is the view or redirect the route leads to.
	Target Target

	compiled *Pattern
}

// IsCatchAll reports whether the entry's pattern matches every path.
func (e Entry) IsCatchAll() bool {
	return e.compiled != nil && e.compiled.IsCatchAll()
}

// Params holds captured route params. Repeatable params capture one value
// per segment; single params capture exactly one value.
type Params map[string][]string

// Get returns the param value, joining repeated segments with "/".
func (p Params) Get(name string) string {
	return strings.Join(p[name], "/")
}

// Has reports whether the param was captured.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Named navigation errors.
var (
	ErrUnknownRoute = errors.New("unknown route name")
	ErrMissingParam = errors.New("missing route param")
)
