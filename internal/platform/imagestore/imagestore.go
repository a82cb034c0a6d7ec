// Package imagestore keeps uploaded cover images on a filesystem.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ErrUnsupportedType is returned for names without an allowed image extension.
var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir on fs, creating dir if needed.
func New(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// NewOS returns a store on the local disk.
func NewOS(dir string) (*Store, error) {
	return New(afero.NewOsFs(), dir)
}

// Sanitize reduces a client supplied filename to a safe base name: directory
// components are dropped and every character outside [A-Za-z0-9._-] becomes
// '_'. The extension must be one of the allowed image types.
func Sanitize(name string) (string, error) {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	clean := strings.TrimLeft(b.String(), "._")

	ext := strings.ToLower(filepath.Ext(clean))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return clean, nil
}

// Save writes r under a sanitized version of name and returns the stored
// filename. An existing file is never overwritten; a numeric suffix is added
// instead. Names are claimed with O_EXCL, so concurrent saves of the same
// name get distinct files.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	clean, err := Sanitize(name)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(clean)
	stem := strings.TrimSuffix(clean, ext)
	candidate := clean
	var f afero.File
	for i := 1; ; i++ {
		f, err = s.fs.OpenFile(filepath.Join(s.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create upload: %w", err)
		}
		candidate = stem + "-" + strconv.Itoa(i) + ext
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(filepath.Join(s.dir, candidate))
		return "", fmt.Errorf("write upload: %w", err)
	}
	return candidate, nil
}

// Handler serves stored files. Mount it with http.StripPrefix.
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir(s.dir))
}
