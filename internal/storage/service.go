/*
Package storage implements the upload store: durable persistence for named
blobs with a retrievable unique identifier per call.

A stored blob is never overwritten; name collisions are resolved by the
backend. The returned identifier is what a client later references in a
send_file chat event.
*/
package storage

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"rtchat/internal/configs"
	"rtchat/internal/pkg/errs"
)

// AllowedExtensions is the fixed allow-list for uploaded blobs.
var AllowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".pdf":  {},
	".txt":  {},
	".zip":  {},
	".doc":  {},
	".docx": {},
	".xls":  {},
	".xlsx": {},
}

// UploadStore is the public interface for the file storage service.
type UploadStore interface {
	// Save persists the blob under a unique identifier derived from name
	// and returns that identifier. Existing blobs are never overwritten.
	Save(ctx context.Context, name string, body io.Reader) (string, *errs.CustomError)

	// ServeBlob delivers the stored blob over HTTP, either directly from
	// local storage or by redirecting to a time-limited presigned URL.
	ServeBlob(w http.ResponseWriter, r *http.Request, storedName string)
}

// NewUploadStore is the factory function for UploadStore. It selects the
// concrete backend from the application configuration.
func NewUploadStore(cfg *configs.AppConfig) (UploadStore, error) {
	if cfg.StorageBackend == configs.StorageBackendS3 {
		return newS3Store(cfg)
	}
	return newDiskStore(cfg.UploadDir)
}

// ValidateName rejects names whose extension is outside the allow-list.
func ValidateName(name string) *errs.CustomError {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return errs.NewError(errs.ErrFileTypeNotAllowed)
	}

	if _, ok := AllowedExtensions[ext]; !ok {
		return errs.NewError(errs.ErrFileTypeNotAllowed)
	}

	return nil
}
