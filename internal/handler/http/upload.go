package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/app"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

const uploadFormMemory = 8 << 20

// upload forwards the "file" part of a multipart form to the file storage
// provider on behalf of the holder of the credential cookie.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	cookie, err := r.Cookie(models.DriveCredentialCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, log, service.ErrAuthenticationRequired, "*Handler.upload")
		return
	}

	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			writeError(w, log, fmt.Errorf("%w: upload of %d bytes", service.ErrPayloadTooLarge, r.ContentLength), "*Handler.upload")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err = r.ParseMultipartForm(uploadFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, log, fmt.Errorf("%w: upload exceeds %d bytes", service.ErrPayloadTooLarge, tooLarge.Limit), "*Handler.upload")
			return
		}
		writeError(w, log, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "*Handler.upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Str("func", "*Handler.upload").Msg("upload without file part")
		http.Error(w, app.MsgNoFileProvided, http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.services.UploadService.Upload(r.Context(), cookie.Value, header.Filename, file)
	if err != nil {
		writeError(w, log, err, "*Handler.upload")
		return
	}

	log.Info().Str("file_id", result.FileID).Int64("size", header.Size).Msg("attachment uploaded")
	utils.WriteJSON(w, result, http.StatusOK)
}
