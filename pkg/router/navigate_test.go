package router

import (
	"errors"
	"testing"
)

func TestNavigateOptionFunctions(t *testing.T) {
	var opts NavigateOptions

	WithReplace()(&opts)
	if !opts.Replace {
		t.Error("WithReplace should set Replace to true")
	}

	params := map[string]any{"page": 1, "sort": "name"}
	WithParams(params)(&opts)
	if opts.Params["page"] != 1 {
		t.Error("WithParams should set params")
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		path   string
		params map[string]any
		want   string
	}{
		{path: "/users", want: "/users"},
		{path: "/search", params: map[string]any{"q": "test"}, want: "/search?q=test"},
		{path: "/users", params: map[string]any{"page": 2, "limit": 10}, want: "/users?limit=10&page=2"},
	}

	for _, tt := range tests {
		got, err := buildURL(tt.path, tt.params)
		if err != nil || got != tt.want {
			t.Errorf("buildURL(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	n, err := NewNavigator(newTestResolver(t), "/")
	if err != nil {
		t.Fatalf("NewNavigator() error: %v", err)
	}
	return n
}

func TestNavigatorPush(t *testing.T) {
	n := newTestNavigator(t)

	loc, changed, err := n.Push("/settings")
	if err != nil || !changed || loc.View() != "Settings" {
		t.Fatalf("Push(/settings) = %+v, %v, %v", loc, changed, err)
	}
	if n.Len() != 2 || n.Index() != 1 {
		t.Errorf("Len=%d Index=%d, want 2/1", n.Len(), n.Index())
	}

	// Duplicate navigation is a no-op.
	if _, changed, _ := n.Push("/settings"); changed {
		t.Error("pushing the current location should not change history")
	}

	// Unknown paths land on the redirect target.
	loc, changed, _ = n.Push("/unknown/deep")
	if !changed || loc.View() != "Home" || loc.RedirectedFrom != "/unknown/deep" {
		t.Errorf("Push(/unknown/deep) = %+v, %v", loc, changed)
	}
	if loc.Href != "/" {
		t.Errorf("Href = %q", loc.Href)
	}
}

func TestNavigatorReplaceAndQuery(t *testing.T) {
	n := newTestNavigator(t)

	loc, _, _ := n.Push("/settings", WithReplace(), WithParams(map[string]any{"tab": "general"}))
	if n.Len() != 1 {
		t.Errorf("Replace should keep history length 1, got %d", n.Len())
	}
	if loc.FullPath() != "/settings?tab=general" || loc.Href != "/settings?tab=general" {
		t.Errorf("FullPath=%q Href=%q", loc.FullPath(), loc.Href)
	}
}

func TestNavigatorBackForward(t *testing.T) {
	n := newTestNavigator(t)
	n.Push("/settings")

	if loc, ok := n.Back(); !ok || loc.View() != "Home" {
		t.Errorf("Back() = %+v, %v", loc, ok)
	}
	if _, ok := n.Back(); ok {
		t.Error("Back() past the first entry should fail")
	}
	if loc, ok := n.Forward(); !ok || loc.View() != "Settings" {
		t.Errorf("Forward() = %+v, %v", loc, ok)
	}
	if _, ok := n.Forward(); ok {
		t.Error("Forward() past the last entry should fail")
	}

	// Pushing after going back drops the forward entries.
	n.Back()
	n.Push("/settings?tab=users")
	if n.Len() != 2 {
		t.Errorf("Len() = %d, want 2", n.Len())
	}
	if _, ok := n.Forward(); ok {
		t.Error("forward entries should be dropped after a push")
	}
}

func TestNavigatorPushNamed(t *testing.T) {
	n := newTestNavigator(t)

	loc, changed, err := n.PushNamed("Settings", nil)
	if err != nil || !changed || loc.View() != "Settings" {
		t.Errorf("PushNamed(Settings) = %+v, %v, %v", loc, changed, err)
	}
	if _, _, err := n.PushNamed("Nope", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("PushNamed(Nope) error = %v", err)
	}
}
