package assets

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"
	"strings"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

// ManifestName is the name of the fingerprint manifest inside a source.
const ManifestName = "manifest.json"

// Manifest maps source asset names to their fingerprinted names:
//
//	{"app.js": "app.a1b2c3d4.js", "app.css": "app.e5f6a7b8.css"}
type Manifest struct {
	entries map[string]string
}

// NewManifest creates a manifest from entries.
func NewManifest(entries map[string]string) *Manifest {
	m := &Manifest{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// LoadManifest reads manifest.json from src. A source without a manifest
// yields an empty one.
func LoadManifest(ctx context.Context, src Source) (*Manifest, error) {
	obj, err := src.Open(ctx, ManifestName)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return NewManifest(nil), nil
		}
		return nil, err
	}

	var entries map[string]string
	if err := json.Unmarshal(obj.Data, &entries); err != nil {
		return nil, errors.New("E301").
			WithDetailf("%s: %v", ManifestName, err).
			WithSuggestion("Regenerate the asset manifest")
	}
	return NewManifest(entries), nil
}

// Resolve returns the fingerprinted name for source, or source unchanged.
func (m *Manifest) Resolve(source string) string {
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest has an entry for source.
func (m *Manifest) Has(source string) bool {
	_, ok := m.entries[source]
	return ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Rewrite replaces every prefix+source reference in doc with
// prefix+fingerprinted name.
func (m *Manifest) Rewrite(doc []byte, prefix string) []byte {
	if len(m.entries) == 0 {
		return doc
	}

	// Longest names first so "app.js" does not clobber "app.js.map".
	sources := make([]string, 0, len(m.entries))
	for s := range m.entries {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return len(sources[i]) > len(sources[j]) })

	pairs := make([]string, 0, 2*len(sources))
	for _, s := range sources {
		pairs = append(pairs, prefix+s, prefix+m.entries[s])
	}
	return []byte(strings.NewReplacer(pairs...).Replace(string(doc)))
}
