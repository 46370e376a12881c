package assets

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// Cache control policies.
const (
	CacheControlNone       = "none"
	CacheControlProduction = "production"
)

// Handler serves static files from a Source under a URL prefix.
type Handler struct {
	source       Source
	prefix       string
	cacheControl string
	headers      map[string]string
	logger       *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCacheControl sets the cache policy ("none" or "production").
func WithCacheControl(policy string) HandlerOption {
	return func(h *Handler) {
		h.cacheControl = policy
	}
}

// WithHeader adds a header to every static response.
func WithHeader(key, value string) HandlerOption {
	return func(h *Handler) {
		h.headers[key] = value
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = l
	}
}

// NewHandler creates a static file handler for URLs under prefix.
func NewHandler(source Source, prefix string, opts ...HandlerOption) *Handler {
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	h := &Handler{
		source:       source,
		prefix:       prefix,
		cacheControl: CacheControlProduction,
		headers:      make(map[string]string),
		logger:       slog.Default().With("component", "assets"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Prefix returns the URL prefix served by h.
func (h *Handler) Prefix() string {
	return h.prefix
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := RelPath(h.prefix, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	obj, err := h.source.Open(r.Context(), rel)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("asset source failed", "source", h.source.Kind(), "name", rel, "error", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	h.applyCacheHeaders(w, rel)
	for key, value := range h.headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", obj.ContentType)

	http.ServeContent(w, r, rel, obj.ModTime, bytes.NewReader(obj.Data))
}

// RelPath returns a sanitized relative file name for a request path under
// prefix. It rejects traversal and absolute-path tricks so a request can
// never escape the source root.
func RelPath(prefix, urlPath string) (string, bool) {
	rel := stripPrefix(prefix, urlPath)
	if rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	if strings.Contains(rel, "\\") {
		return "", false
	}

	// "/assets//etc/passwd" => "/etc/passwd"
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

func stripPrefix(prefix, urlPath string) string {
	if prefix == "/" {
		return strings.TrimPrefix(urlPath, "/")
	}
	if !strings.HasPrefix(urlPath, prefix) {
		return ""
	}
	return strings.TrimPrefix(urlPath, prefix)
}

func (h *Handler) applyCacheHeaders(w http.ResponseWriter, name string) {
	switch h.cacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if isFingerprinted(name) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether a file name carries a content hash,
// e.g. "app.a1b2c3d4.css".
func isFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
