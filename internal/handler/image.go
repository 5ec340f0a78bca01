package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/imgur"
	"github.com/myboulders/api/internal/service"
)

// ImageHandler covers image hosting.
//
//	POST   /api/images/upload → multipart upload, optional attach target
//	DELETE /api/images/delete → remove a hosted image by delete hash
type ImageHandler struct {
	images *service.ImageService
	logger *slog.Logger
}

func NewImageHandler(images *service.ImageService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{images: images, logger: logger}
}

// HandleUpload accepts a multipart form with the image under "file" and the
// optional fields "target_type" (completed_route | user_profile) and
// "target_id". The request body is capped just above the largest ceiling the
// image host accepts; the host's own size check produces the user-facing
// validation error.
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imgur.MaxAccountSize+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request is not a valid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "could not read uploaded file"))
		return
	}

	result, err := h.images.Upload(r.Context(), principal.ID, service.UploadInput{
		Filename:   header.Filename,
		Data:       data,
		TargetType: r.FormValue("target_type"),
		TargetID:   r.FormValue("target_id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleDelete removes a hosted image.
//
// Body: {"delete_hash"}
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeleteHash string `json:"delete_hash"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.images.Delete(r.Context(), req.DeleteHash); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}
