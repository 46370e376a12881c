package assets

import (
	"context"
	"embed"
	stderrors "errors"
	"io/fs"
	"mime"
	"os"
	"path"
	"time"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

// ErrNotFound is returned when a source has no object under a name.
var ErrNotFound = errors.New("E300")

// ShellName is the name of the SPA shell inside every source.
const ShellName = "index.html"

// Object is a file read from a Source.
type Object struct {
	Name        string
	Data        []byte
	ContentType string
	ModTime     time.Time
}

// Source is a read-only store of named files.
type Source interface {
	// Open returns the named object. Names are slash-separated and relative.
	Open(ctx context.Context, name string) (*Object, error)

	// Kind returns the source kind ("embed", "dir" or "s3").
	Kind() string
}

//go:embed shell
var embedded embed.FS

// FSSource reads objects from an fs.FS.
type FSSource struct {
	fsys fs.FS
	kind string
}

// NewEmbedSource returns the built-in shell bundle.
func NewEmbedSource() *FSSource {
	sub, err := fs.Sub(embedded, "shell")
	if err != nil {
		panic(err)
	}
	return &FSSource{fsys: sub, kind: "embed"}
}

// NewDirSource reads objects from a local directory.
func NewDirSource(dir string) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.New("E301").Wrap(err).
			WithSuggestion("Create the directory or set assets.dir")
	}
	if !info.IsDir() {
		return nil, errors.New("E301").WithDetailf("%s is not a directory", dir)
	}
	return &FSSource{fsys: os.DirFS(dir), kind: "dir"}, nil
}

// NewFSSource wraps an arbitrary fs.FS.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys, kind: "fs"}
}

// Kind implements Source.
func (s *FSSource) Kind() string { return s.kind }

// Open implements Source.
func (s *FSSource) Open(_ context.Context, name string) (*Object, error) {
	if !fs.ValidPath(name) {
		return nil, ErrNotFound
	}

	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.New("E301").Wrap(err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}

	return &Object{
		Name:        name,
		Data:        data,
		ContentType: contentType(name),
		ModTime:     info.ModTime(),
	}, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
