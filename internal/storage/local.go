package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores files below Root and serves them under BaseURL.
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Local{Root: root, BaseURL: baseURL}, nil
}

func (l *Local) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	ref := path.Join(folder, filepath.Base(filename))
	full, err := l.resolve(ref)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	out, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(full)
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close file: %w", err)
	}
	return ref, nil
}

// Delete removes the file. A file that is already gone is not an error.
func (l *Local) Delete(ctx context.Context, ref string) error {
	full, err := l.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (l *Local) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return l.BaseURL + ref
}

// Handler serves stored files. It is mounted under BaseURL.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(l.BaseURL, http.FileServer(http.Dir(l.Root)))
}

func (l *Local) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if ref == "" || clean == "/" || clean != "/"+ref {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean)), nil
}
