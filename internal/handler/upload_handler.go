package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/req"
	"rtchat/internal/pkg/resp"
)

// HandleUpload accepts a multipart file upload, persists it through the
// upload store, and returns the unique stored identifier. Clients reference
// that identifier in a later send_file chat event.
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNoFileProvided))
			return
		}
		defer file.Close()

		if header.Filename == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrNoFileProvided))
			return
		}

		storedName, customErr := deps.Store.Save(r.Context(), header.Filename, file)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"filename": storedName})
	}
}

// HandleDownload serves a stored blob by its unique identifier.
func HandleDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storedName := chi.URLParam(r, "filename")
		if storedName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		deps.Store.ServeBlob(w, r, storedName)
	}
}
