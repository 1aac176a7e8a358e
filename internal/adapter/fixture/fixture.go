// Package fixture loads the seed dataset a session starts from, either from
// the files embedded in the binary or from a directory of JSON/YAML files.
package fixture

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"library-desk/internal/domain/library"
	apperrors "library-desk/pkg/errors"
)

// Collection file base names.
const (
	BooksFile        = "books"
	UsersFile        = "users"
	TransactionsFile = "transactions"
)

//go:embed data/*.json
var embedded embed.FS

// Source produces a validated dataset.
type Source interface {
	Load(ctx context.Context) (*library.Dataset, error)
}

// Embedded loads the dataset bundled with the binary.
type Embedded struct{}

// NewEmbedded returns the bundled fixture source.
func NewEmbedded() *Embedded {
	return &Embedded{}
}

// Load implements Source.
func (e *Embedded) Load(ctx context.Context) (*library.Dataset, error) {
	data, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, apperrors.NewInternalError("open embedded fixtures", err)
	}
	return loadFS(ctx, data)
}

// Dir loads the dataset from a directory holding books, users and
// transactions files, each as .json, .yaml or .yml.
type Dir struct {
	path string
}

// NewDir returns a source reading from path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Load implements Source.
func (d *Dir) Load(ctx context.Context) (*library.Dataset, error) {
	info, err := os.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("fixture dir %s: %w", d.path, err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewValidationError("fixture.dir", fmt.Sprintf("%s is not a directory", d.path))
	}
	return loadFS(ctx, os.DirFS(d.path))
}

func loadFS(ctx context.Context, fsys fs.FS) (*library.Dataset, error) {
	var ds library.Dataset

	if err := readCollection(ctx, fsys, BooksFile, &ds.Books); err != nil {
		return nil, err
	}
	if err := readCollection(ctx, fsys, UsersFile, &ds.Users); err != nil {
		return nil, err
	}
	if err := readCollection(ctx, fsys, TransactionsFile, &ds.Transactions); err != nil {
		return nil, err
	}

	return Prepare(&ds)
}

// Prepare fills defaults and validates a freshly decoded dataset.
func Prepare(ds *library.Dataset) (*library.Dataset, error) {
	ds.Normalize()
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture data: %w", err)
	}
	return ds, nil
}

// readCollection decodes the first of name.json, name.yaml, name.yml found.
func readCollection(ctx context.Context, fsys fs.FS, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		file := name + ext
		raw, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if err := decode(file, raw, out); err != nil {
			return apperrors.NewValidationError("fixture."+name, fmt.Sprintf("decode %s: %v", file, err))
		}
		return nil
	}

	return apperrors.NewNotFoundError("fixture", fmt.Sprintf("no %s fixture file (.json, .yaml or .yml)", name))
}

func decode(file string, raw []byte, out any) error {
	if filepath.Ext(file) == ".json" {
		return json.Unmarshal(raw, out)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
