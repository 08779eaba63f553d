/*
Package storage implements the upload store.

This file defines the local-disk backend: sanitized filenames, an extension
allow-list, and numeric-suffix collision handling so an existing blob is
never overwritten.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

// maxSuffixAttempts bounds the collision-resolution loop. Hitting it means
// thousands of identically named files; treat that as a storage fault.
const maxSuffixAttempts = 10000

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// diskStore persists uploads in a local directory.
type diskStore struct {
	dir    string
	logger zerolog.Logger
}

// newDiskStore creates the upload directory if needed and returns the store.
func newDiskStore(dir string) (*diskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}

	return &diskStore{
		dir:    dir,
		logger: logx.Logger().With().Str("component", "DiskStore").Logger(),
	}, nil
}

// SanitizeName reduces a client-supplied filename to a safe basename: path
// components are stripped, whitespace collapses to underscores, and anything
// outside [A-Za-z0-9._-] is removed.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeNameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}

// Save stores the blob under a unique name derived from name. Collisions are
// resolved with a numeric suffix (name_1.ext, name_2.ext, ...); O_EXCL
// guarantees no overwrite even under concurrent saves of the same name.
func (d *diskStore) Save(ctx context.Context, name string, body io.Reader) (string, *errs.CustomError) {
	clean := SanitizeName(name)
	if clean == "" {
		return "", errs.NewError(errs.ErrInvalidParams)
	}

	if customErr := ValidateName(clean); customErr != nil {
		return "", customErr
	}

	ext := filepath.Ext(clean)
	base := strings.TrimSuffix(clean, ext)

	for attempt := 0; attempt < maxSuffixAttempts; attempt++ {
		candidate := clean
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, attempt, ext)
		}

		f, err := os.OpenFile(filepath.Join(d.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			d.logger.Error().Err(err).Str("file_name", candidate).Msg("Failed to create upload file")
			return "", errs.NewError(errs.ErrFileStorageFailed)
		}

		if _, err := io.Copy(f, body); err != nil {
			f.Close()
			os.Remove(f.Name())
			d.logger.Error().Err(err).Str("file_name", candidate).Msg("Failed to write upload file")
			return "", errs.NewError(errs.ErrFileStorageFailed)
		}

		if err := f.Close(); err != nil {
			d.logger.Error().Err(err).Str("file_name", candidate).Msg("Failed to close upload file")
			return "", errs.NewError(errs.ErrFileStorageFailed)
		}

		d.logger.Info().Str("file_name", candidate).Msg("Stored uploaded file")
		return candidate, nil
	}

	return "", errs.NewError(errs.ErrFileStorageFailed)
}

// ServeBlob serves a stored blob straight from the upload directory. The
// stored name is re-sanitized so a crafted path can never escape the dir.
func (d *diskStore) ServeBlob(w http.ResponseWriter, r *http.Request, storedName string) {
	clean := SanitizeName(storedName)
	if clean == "" || clean != storedName {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(d.dir, clean)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, path)
}
