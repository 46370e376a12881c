package router

import (
	"fmt"
	"net/url"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Params are query parameters to add to the URL.
	Params map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// buildURL merges query params into path. Keys are sorted by url.Values.
func buildURL(path string, params map[string]any) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %s", path)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, fmt.Sprintf("%v", v))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Location is a resolved entry in a navigation history.
type Location struct {
	Resolution

	// Href is the browser URL of the location.
	Href string
}

// Navigator keeps one client's navigation history. Every push resolves
// through the resolver, so redirected paths land on their final route.
//
// A Navigator is not safe for concurrent use.
type Navigator struct {
	resolver *Resolver
	stack    []Location
	index    int
}

// NewNavigator starts a history at the resolution of initial.
func NewNavigator(r *Resolver, initial string) (*Navigator, error) {
	res, ok := r.Resolve(initial)
	if !ok {
		return nil, fmt.Errorf("initial path %q does not resolve", initial)
	}
	n := &Navigator{resolver: r}
	n.stack = []Location{n.location(res)}
	return n, nil
}

func (n *Navigator) location(res Resolution) Location {
	return Location{Resolution: res, Href: n.resolver.HrefOf(res)}
}

// Current returns the active location.
func (n *Navigator) Current() Location {
	return n.stack[n.index]
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	return len(n.stack)
}

// Index returns the position of the active entry.
func (n *Navigator) Index() int {
	return n.index
}

// Push navigates to path. It reports false, leaving history untouched, when
// the path does not resolve or resolves to the current location.
func (n *Navigator) Push(path string, opts ...NavigateOption) (Location, bool, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target, err := buildURL(path, options.Params)
	if err != nil {
		return n.Current(), false, err
	}

	res, ok := n.resolver.Resolve(target)
	if !ok {
		return n.Current(), false, nil
	}
	return n.commit(res, options.Replace)
}

// PushNamed navigates to a named route.
func (n *Navigator) PushNamed(name string, params Params, opts ...NavigateOption) (Location, bool, error) {
	path, err := n.resolver.PathFor(name, params)
	if err != nil {
		return n.Current(), false, err
	}
	return n.Push(path, opts...)
}

func (n *Navigator) commit(res Resolution, replace bool) (Location, bool, error) {
	loc := n.location(res)
	if loc.FullPath() == n.Current().FullPath() {
		return n.Current(), false, nil
	}

	if replace {
		n.stack[n.index] = loc
		return loc, true, nil
	}

	n.stack = append(n.stack[:n.index+1], loc)
	n.index++
	return loc, true, nil
}

// Back moves one entry back.
func (n *Navigator) Back() (Location, bool) {
	return n.Go(-1)
}

// Forward moves one entry forward.
func (n *Navigator) Forward() (Location, bool) {
	return n.Go(1)
}

// Go moves delta entries through history. Out-of-range moves are ignored.
func (n *Navigator) Go(delta int) (Location, bool) {
	next := n.index + delta
	if delta == 0 || next < 0 || next >= len(n.stack) {
		return n.Current(), false
	}
	n.index = next
	return n.Current(), true
}
