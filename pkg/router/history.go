package router

import (
	"fmt"
	"net/url"
	"strings"
)

// HistoryMode selects how route paths appear in browser URLs.
type HistoryMode string

const (
	// HistoryWeb keeps the route path in the URL path ("/base/manager-user").
	// The server must answer every deep link with the application shell.
	HistoryWeb HistoryMode = "web"

	// HistoryHash keeps the route path in the fragment ("/base/#/manager-user").
	HistoryHash HistoryMode = "hash"
)

// History maps between route paths and browser URLs.
type History interface {
	// Mode returns the history mode.
	Mode() HistoryMode

	// Base returns the normalized base path ("" for root).
	Base() string

	// Href returns the browser URL for a route path (with optional query).
	Href(path string) string

	// Location extracts the route path (with query) from a browser URL.
	Location(u *url.URL) string
}

// NewHistory returns the History for mode.
func NewHistory(mode HistoryMode, base string) (History, error) {
	switch mode {
	case HistoryWeb, "":
		return NewWebHistory(base), nil
	case HistoryHash:
		return NewHashHistory(base), nil
	default:
		return nil, fmt.Errorf("unknown history mode %q", mode)
	}
}

// normalizeBase turns "", "/", "admin", "/admin/" into "" or "/admin".
func normalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return ""
	}
	return "/" + base
}

type webHistory struct {
	base string
}

// NewWebHistory returns path-based history rooted at base.
func NewWebHistory(base string) History {
	return &webHistory{base: normalizeBase(base)}
}

func (h *webHistory) Mode() HistoryMode { return HistoryWeb }

func (h *webHistory) Base() string { return h.base }

func (h *webHistory) Href(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.base + path
}

func (h *webHistory) Location(u *url.URL) string {
	path := u.EscapedPath()
	if h.base != "" {
		if path == h.base {
			path = "/"
		} else if strings.HasPrefix(path, h.base+"/") {
			path = strings.TrimPrefix(path, h.base)
		}
	}
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

type hashHistory struct {
	base string
}

// NewHashHistory returns fragment-based history rooted at base.
func NewHashHistory(base string) History {
	return &hashHistory{base: normalizeBase(base)}
}

func (h *hashHistory) Mode() HistoryMode { return HistoryHash }

func (h *hashHistory) Base() string { return h.base }

func (h *hashHistory) Href(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.base + "/#" + path
}

func (h *hashHistory) Location(u *url.URL) string {
	path := u.Fragment
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
