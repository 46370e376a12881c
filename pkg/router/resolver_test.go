package router

import (
	"errors"
	"testing"
)

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(MustTable(validEntries()...), opts...)
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}
	return r
}

func TestResolverMatch(t *testing.T) {
	r := newTestResolver(t)

	m, ok := r.Match("/settings")
	if !ok || m.Entry.Name != "Settings" || m.Entry.Target.IsRedirect() {
		t.Errorf("Match(/settings) = %+v, %v", m, ok)
	}

	m, ok = r.Match("/nope")
	if !ok || !m.Entry.IsCatchAll() {
		t.Errorf("Match(/nope) should stop at the catch-all, got %+v", m)
	}
	if got := m.Params.Get("pathMatch"); got != "nope" {
		t.Errorf("pathMatch = %q, want nope", got)
	}
}

func TestResolverResolve(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		path         string
		wantView     ViewID
		wantPath     string
		wantFrom     string
		wantRedirect bool
	}{
		{path: "/", wantView: "Home", wantPath: "/"},
		{path: "/settings", wantView: "Settings", wantPath: "/settings"},
		{path: "/settings?tab=2", wantView: "Settings", wantPath: "/settings"},
		{path: "/settings/", wantView: "Home", wantPath: "/", wantFrom: "/settings/", wantRedirect: true},
		{path: "/SETTINGS", wantView: "Home", wantPath: "/", wantFrom: "/SETTINGS", wantRedirect: true},
		{path: "//settings", wantView: "Home", wantPath: "/", wantFrom: "//settings", wantRedirect: true},
		{path: "/x/../settings", wantView: "Home", wantPath: "/", wantFrom: "/x/../settings", wantRedirect: true},
		{path: "/./settings", wantView: "Home", wantPath: "/", wantFrom: "/./settings", wantRedirect: true},
		{path: "settings", wantView: "Home", wantPath: "/", wantFrom: "settings", wantRedirect: true},
		{path: "//", wantView: "Home", wantPath: "/", wantFrom: "//", wantRedirect: true},
		{path: "/foo", wantView: "Home", wantPath: "/", wantFrom: "/foo", wantRedirect: true},
		{path: "/settings/deep/er", wantView: "Home", wantPath: "/", wantFrom: "/settings/deep/er", wantRedirect: true},
		{path: "/foo?x=1", wantView: "Home", wantPath: "/", wantFrom: "/foo?x=1", wantRedirect: true},
		{path: "/a\\b", wantView: "Home", wantPath: "/", wantFrom: "/a\\b", wantRedirect: true},
	}

	for _, tt := range tests {
		res, ok := r.Resolve(tt.path)
		if !ok {
			t.Errorf("Resolve(%q) failed", tt.path)
			continue
		}
		if res.View() != tt.wantView || res.Path != tt.wantPath {
			t.Errorf("Resolve(%q) = %s at %q, want %s at %q", tt.path, res.View(), res.Path, tt.wantView, tt.wantPath)
		}
		if res.Redirected() != tt.wantRedirect || res.RedirectedFrom != tt.wantFrom {
			t.Errorf("Resolve(%q) redirected=%v from %q, want %v from %q", tt.path, res.Redirected(), res.RedirectedFrom, tt.wantRedirect, tt.wantFrom)
		}
		if res.Entry.Target.IsRedirect() {
			t.Errorf("Resolve(%q) ended on a redirect entry", tt.path)
		}
	}
}

func TestResolverRedirectQueryDropped(t *testing.T) {
	r := newTestResolver(t)
	res, _ := r.Resolve("/foo?x=1")
	if res.Query != "" || res.FullPath() != "/" {
		t.Errorf("redirect kept query: %q", res.FullPath())
	}
}

func TestResolverRelaxedMatching(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		path string
		want bool // resolves to Settings without a redirect
	}{
		{name: "ignore case", opts: []Option{WithIgnoreCase()}, path: "/SETTINGS", want: true},
		{name: "ignore case keeps slash", opts: []Option{WithIgnoreCase()}, path: "/Settings/", want: false},
		{name: "trailing slash", opts: []Option{WithIgnoreTrailingSlash()}, path: "/settings/", want: true},
		{name: "trailing slash keeps case", opts: []Option{WithIgnoreTrailingSlash()}, path: "/Settings/", want: false},
		{name: "canonical", opts: []Option{WithCanonicalPaths()}, path: "//x/../settings", want: true},
		{name: "canonical keeps slash", opts: []Option{WithCanonicalPaths()}, path: "/settings/", want: false},
		{name: "lenient", opts: []Option{WithLenient()}, path: "//SETTINGS/", want: true},
		{name: "lenient bad escape", opts: []Option{WithLenient()}, path: "/settings%zz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.opts...)
			res, ok := r.Resolve(tt.path)
			if !ok {
				t.Fatalf("Resolve(%q) failed", tt.path)
			}
			got := !res.Redirected() && res.View() == "Settings"
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s (redirected=%v), want settings=%v", tt.path, res.View(), res.Redirected(), tt.want)
			}
		})
	}
}

func TestResolverIdempotentRedirect(t *testing.T) {
	r := newTestResolver(t)

	first, _ := r.Resolve("/unknown")
	second, _ := r.Resolve(first.Path)
	if second.Redirected() {
		t.Error("resolving the redirect target must not redirect again")
	}
	if first.View() != second.View() || first.Path != second.Path {
		t.Errorf("first %+v, second %+v", first, second)
	}
}

func TestResolverNoCatchAll(t *testing.T) {
	table := MustTable(Entry{Pattern: "/", Name: "Home", Target: View("Home")})
	r, err := NewResolver(table)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Resolve("/missing"); ok {
		t.Error("a table without a catch-all should not resolve /missing")
	}
}

func TestNewResolverRejectsUnresolvedRedirects(t *testing.T) {
	loop := MustTable(
		Entry{Pattern: "/a", Target: RedirectTo("/b")},
		Entry{Pattern: "/b", Target: RedirectTo("/a")},
	)
	_, err := NewResolver(loop)
	var multi *MultiValidationError
	if !errors.As(err, &multi) || !multi.Has(ErrorUnresolvedRedirect) {
		t.Errorf("redirect loop: err = %v", err)
	}

	dangling := MustTable(
		Entry{Pattern: "/", Target: View("Home")},
		Entry{Pattern: "/old", Target: RedirectTo("/gone")},
	)
	if _, err := NewResolver(dangling); err == nil {
		t.Error("dangling redirect should be rejected")
	}
}

func TestResolverObserver(t *testing.T) {
	var calls []string
	r := newTestResolver(t, WithObserver(func(requested string, res Resolution, ok bool) {
		if ok {
			calls = append(calls, requested+"->"+string(res.View()))
		}
	}))

	r.Resolve("/settings")
	r.Resolve("/x")

	want := []string{"/settings->Settings", "/x->Home"}
	if len(calls) != len(want) {
		t.Fatalf("observer calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestResolverNamed(t *testing.T) {
	r := newTestResolver(t, WithHistory(NewWebHistory("/admin/")))

	res, err := r.ResolveName("Settings", nil)
	if err != nil || res.View() != "Settings" {
		t.Errorf("ResolveName(Settings) = %+v, %v", res, err)
	}

	href, err := r.Href("Settings", nil)
	if err != nil || href != "/admin/settings" {
		t.Errorf("Href(Settings) = %q, %v", href, err)
	}

	if _, err := r.ResolveName("Missing", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("ResolveName(Missing) error = %v", err)
	}
	if _, err := r.Href("Missing", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("Href(Missing) error = %v", err)
	}
}

func TestResolverDefaults(t *testing.T) {
	r := newTestResolver(t, WithMaxRedirects(-1))
	o := r.Options()
	if o.MaxRedirects != DefaultMaxRedirects {
		t.Errorf("MaxRedirects = %d", o.MaxRedirects)
	}
	if r.History().Mode() != HistoryWeb {
		t.Errorf("default history = %s", r.History().Mode())
	}
	if r.Table().Len() != 3 {
		t.Errorf("Table().Len() = %d", r.Table().Len())
	}
}
