package assets

import (
	"context"
	"html"
)

// Shell renders the SPA entry document.
type Shell struct {
	source   Source
	manifest *Manifest
	prefix   string
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithManifest rewrites asset references under prefix to their
// fingerprinted names.
func WithManifest(m *Manifest, prefix string) ShellOption {
	return func(s *Shell) {
		s.manifest = m
		s.prefix = prefix
	}
}

// NewShell returns a shell backed by source's index.html.
func NewShell(source Source, opts ...ShellOption) *Shell {
	s := &Shell{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns index.html with asset references rewritten.
func (s *Shell) Document(ctx context.Context) ([]byte, error) {
	obj, err := s.source.Open(ctx, ShellName)
	if err != nil {
		return nil, err
	}
	if s.manifest != nil {
		return s.manifest.Rewrite(obj.Data, s.prefix), nil
	}
	return obj.Data, nil
}

// Render returns the document with the resolved view and route path set
// as data-view and data-route attributes on <body>.
func (s *Shell) Render(ctx context.Context, view, route string) ([]byte, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return inject(doc, view, route), nil
}

func inject(doc []byte, view, route string) []byte {
	attrs := ` data-view="` + html.EscapeString(view) + `" data-route="` + html.EscapeString(route) + `"`

	i := indexFold(doc, "<body")
	if i < 0 {
		return doc
	}
	at := i + len("<body")

	out := make([]byte, 0, len(doc)+len(attrs))
	out = append(out, doc[:at]...)
	out = append(out, attrs...)
	out = append(out, doc[at:]...)
	return out
}

// indexFold returns the index of the first ASCII case-insensitive match of
// tag in doc, or -1. Offsets are into doc itself.
func indexFold(doc []byte, tag string) int {
next:
	for i := 0; i+len(tag) <= len(doc); i++ {
		for j := 0; j < len(tag); j++ {
			if lowerASCII(doc[i+j]) != lowerASCII(tag[j]) {
				continue next
			}
		}
		return i
	}
	return -1
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
