// Package storage keeps uploaded files (avatars and profile media) on local
// disk or on Cloudinary. Callers only ever hold the reference returned by Save.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	FolderProfiles = "profiles"
	FolderMedia    = "profile_media"
)

var ErrInvalidRef = errors.New("invalid storage reference")

type Storage interface {
	// Save stores the content under folder and returns a reference that can
	// later be passed to Delete and URL.
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}

// RandomName keeps the extension of filename and replaces the rest with a
// random uuid so two uploads never collide.
func RandomName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}
