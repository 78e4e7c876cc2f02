package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedPhoto rejects uploads that are not one of the accepted image
// types. Stored files are served from the API origin, so markup such as
// .html or .svg must never be accepted.
var ErrUnsupportedPhoto = errors.New("unsupported photo type")

// photoTypes maps the accepted extensions to the content type stored with
// the object.
var photoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// PhotoStore persists an uploaded donation photo and returns the URL it can
// be fetched from. Delete removes a photo by that URL.
type PhotoStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName derives a collision-free name that keeps the upload's
// extension, together with the content type for it.
func objectName(original string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	contentType, ok := photoTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q (allowed: jpg, jpeg, png, gif, webp)", ErrUnsupportedPhoto, ext)
	}
	return uuid.NewString() + ext, contentType, nil
}
