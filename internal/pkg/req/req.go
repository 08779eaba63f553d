/*
Package req provides helpers for HTTP request parsing.

It encapsulates multipart form handling with size constraints so handlers get
well-formed input or a classified error.
*/
package req

import (
	"net/http"
	"strings"

	"rtchat/internal/pkg/errs"
)

const (
	// MaxFormMemory is the maximum amount of memory (32 MB) ParseMultipartForm
	// keeps in RAM for non-file fields; larger file parts spill to temp files.
	MaxFormMemory int64 = 32 << 20

	// MaxRequestFileSize is the maximum allowed size (20 MB) for the entire
	// request body, enforced via http.MaxBytesReader.
	MaxRequestFileSize int64 = 20 << 20
)

// SetupMultipart caps the request body size and parses the multipart form.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
