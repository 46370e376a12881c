package router

import (
	"fmt"
	"strings"

	"github.com/TuanAnhhh123/M26-HKT/pkg/routepath"
)

// DefaultMaxRedirects bounds how many redirect hops Resolve follows.
const DefaultMaxRedirects = 4

// Observer is notified after every Resolve call.
type Observer func(requested string, res Resolution, ok bool)

// Options configures a Resolver.
type Options struct {
	// IgnoreCase compares static segments case-insensitively.
	IgnoreCase bool

	// IgnoreTrailingSlash lets "/a/" match "/a".
	IgnoreTrailingSlash bool

	// Canonicalize cleans repeated slashes, "." and ".." out of a path
	// before it is matched.
	Canonicalize bool

	// MaxRedirects bounds redirect hops (default: DefaultMaxRedirects).
	MaxRedirects int

	// History maps route paths to hrefs (default: web history at root).
	History History

	// Observers are called after each Resolve.
	Observers []Observer
}

// Option configures a Resolver.
type Option func(*Options)

// WithIgnoreCase enables case-insensitive static segments.
func WithIgnoreCase() Option {
	return func(o *Options) {
		o.IgnoreCase = true
	}
}

// WithIgnoreTrailingSlash tolerates a single trailing slash.
func WithIgnoreTrailingSlash() Option {
	return func(o *Options) {
		o.IgnoreTrailingSlash = true
	}
}

// WithCanonicalPaths canonicalizes paths before matching.
func WithCanonicalPaths() Option {
	return func(o *Options) {
		o.Canonicalize = true
	}
}

// WithLenient enables every relaxation: case folding, trailing slashes and
// canonical paths.
func WithLenient() Option {
	return func(o *Options) {
		o.IgnoreCase = true
		o.IgnoreTrailingSlash = true
		o.Canonicalize = true
	}
}

// WithMaxRedirects sets the redirect hop limit.
func WithMaxRedirects(n int) Option {
	return func(o *Options) {
		o.MaxRedirects = n
	}
}

// WithHistory sets the history used for hrefs.
func WithHistory(h History) Option {
	return func(o *Options) {
		o.History = h
	}
}

// WithObserver adds a resolution observer.
func WithObserver(fn Observer) Option {
	return func(o *Options) {
		o.Observers = append(o.Observers, fn)
	}
}

// Match is the result of a single matching step.
type Match struct {
	// Entry is the matched entry. It may be a redirect.
	Entry Entry

	// Path is the path that was matched, canonical when Canonicalize is set.
	Path string

	// Query is the query string (without "?").
	Query string

	// Params are the captured params.
	Params Params
}

// Resolution is the outcome of resolving a path to a view.
type Resolution struct {
	// Entry is the final, view-rendering entry.
	Entry Entry

	// Path is the final path.
	Path string

	// Query is the query string of the final path.
	Query string

	// Params are the params captured by the final entry.
	Params Params

	// RedirectedFrom is the originally requested path when at least one
	// redirect was followed, otherwise "".
	RedirectedFrom string

	// Hops counts the redirects followed.
	Hops int
}

// View returns the view to render.
func (r Resolution) View() ViewID {
	return r.Entry.Target.View
}

// Name returns the final route name.
func (r Resolution) Name() string {
	return r.Entry.Name
}

// Redirected reports whether a redirect was followed.
func (r Resolution) Redirected() bool {
	return r.Hops > 0
}

// FullPath returns the path with its query string.
func (r Resolution) FullPath() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Resolver matches paths against a table. It is immutable and safe for
// concurrent use.
type Resolver struct {
	table *Table
	opts  Options
}

// NewResolver builds a resolver and checks that every redirect in the table
// reaches a view within the hop limit.
func NewResolver(t *Table, opts ...Option) (*Resolver, error) {
	options := Options{MaxRedirects: DefaultMaxRedirects}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxRedirects <= 0 {
		options.MaxRedirects = DefaultMaxRedirects
	}
	if options.History == nil {
		options.History = NewWebHistory("")
	}

	r := &Resolver{table: t, opts: options}

	var errs []ValidationError
	for _, e := range t.entries {
		if !e.Target.IsRedirect() {
			continue
		}
		if _, ok := r.follow(e.Target.Redirect); !ok {
			errs = append(errs, ValidationError{
				Type:    ErrorUnresolvedRedirect,
				Message: fmt.Sprintf("redirect %s -> %s does not reach a view", e.Pattern, e.Target.Redirect),
				Pattern: e.Pattern,
			})
		}
	}
	if len(errs) > 0 {
		return nil, &MultiValidationError{Errors: errs}
	}

	return r, nil
}

// Table returns the resolver's table.
func (r *Resolver) Table() *Table {
	return r.table
}

// History returns the resolver's history.
func (r *Resolver) History() History {
	return r.opts.History
}

// Options returns a copy of the resolver's options.
func (r *Resolver) Options() Options {
	o := r.opts
	o.Observers = append([]Observer(nil), r.opts.Observers...)
	return o
}

// Match returns the first entry matching path without following redirects.
func (r *Resolver) Match(path string) (Match, bool) {
	canonical, query, segments := r.split(path)

	for _, e := range r.table.entries {
		params, ok := e.compiled.Match(segments, !r.opts.IgnoreCase)
		if !ok {
			continue
		}
		return Match{
			Entry:  e,
			Path:   canonical,
			Query:  query,
			Params: params,
		}, true
	}

	return Match{}, false
}

// Resolve matches path and follows redirects until a view entry is reached.
// ok is false only when nothing matches or the hop limit is exceeded; a
// table ending in a catch-all resolves every path.
func (r *Resolver) Resolve(path string) (Resolution, bool) {
	res, ok := r.follow(path)
	for _, obs := range r.opts.Observers {
		obs(path, res, ok)
	}
	return res, ok
}

func (r *Resolver) follow(path string) (Resolution, bool) {
	m, ok := r.Match(path)
	if !ok {
		return Resolution{}, false
	}

	requested := m.Path
	if m.Query != "" {
		requested += "?" + m.Query
	}

	hops := 0
	for m.Entry.Target.IsRedirect() {
		if hops >= r.opts.MaxRedirects {
			return Resolution{}, false
		}
		hops++
		if m, ok = r.Match(m.Entry.Target.Redirect); !ok {
			return Resolution{}, false
		}
	}

	res := Resolution{
		Entry:  m.Entry,
		Path:   m.Path,
		Query:  m.Query,
		Params: m.Params,
		Hops:   hops,
	}
	if hops > 0 {
		res.RedirectedFrom = requested
	}
	return res, true
}

// ResolveName resolves a named route filled with params.
func (r *Resolver) ResolveName(name string, params Params) (Resolution, error) {
	path, err := r.PathFor(name, params)
	if err != nil {
		return Resolution{}, err
	}
	res, ok := r.Resolve(path)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q does not resolve", ErrUnknownRoute, name)
	}
	return res, nil
}

// PathFor returns the route path of a named route filled with params.
func (r *Resolver) PathFor(name string, params Params) (string, error) {
	e, ok := r.table.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return e.compiled.Build(params)
}

// Href returns the browser URL of a named route.
func (r *Resolver) Href(name string, params Params) (string, error) {
	path, err := r.PathFor(name, params)
	if err != nil {
		return "", err
	}
	return r.opts.History.Href(path), nil
}

// HrefOf returns the browser URL of a resolution.
func (r *Resolver) HrefOf(res Resolution) string {
	return r.opts.History.Href(res.FullPath())
}

// split returns (path, query, match segments). Without Canonicalize the
// raw path is split on every "/", so "//a", "/a/" and "/x/../a" keep their
// empty or dot segments and only params such as the catch-all accept them.
// Paths that fail canonicalization are split raw as well.
func (r *Resolver) split(path string) (string, string, []string) {
	if r.opts.Canonicalize {
		if c, err := routepath.CanonicalizePath(path); err == nil {
			segments := splitPath(c.Path)
			if c.TrailingSlash && !r.opts.IgnoreTrailingSlash {
				segments = append(segments, "")
			}
			return c.Path, c.Query, segments
		}
	}

	raw, query := routepath.SplitPathAndQuery(path)
	return raw, query, rawSegments(raw, r.opts.IgnoreTrailingSlash)
}

// rawSegments splits an uncleaned path. A path without a leading slash
// gets an empty first segment so no static route can match it.
func rawSegments(path string, ignoreTrailingSlash bool) []string {
	if path == "/" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return append([]string{""}, strings.Split(path, "/")...)
	}
	if ignoreTrailingSlash && len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return strings.Split(path[1:], "/")
}

// splitPath splits a canonical path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
