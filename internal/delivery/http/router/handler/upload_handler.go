package handler

import (
	"io"
	"log/slog"
	"net/http"

	"estate/internal/delivery/http/response"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxUploadBytes caps a single image upload at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler accepts multipart image uploads and hands them to object
// storage.
type UploadHandler struct {
	storage service.FileStorage
	logger  *slog.Logger
}

// NewUploadHandler is the constructor for UploadHandler, injected by Fx.
func NewUploadHandler(storage service.FileStorage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{storage: storage, logger: logger}
}

// Upload stores the "image" form file and returns its public URL and key.
func (h *UploadHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Missing image form file")
	}
	if fileHeader.Size > maxUploadBytes {
		return errors.Wrap(domainerrors.ErrValidationFailed, "image exceeds the 10 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(domainerrors.ErrUploadFailed, err.Error())
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return errors.Wrap(domainerrors.ErrUploadFailed, err.Error())
	}

	contentType := fileHeader.Header.Get("Content-Type")
	stored, err := h.storage.Upload(c.Request().Context(), fileHeader.Filename, contentType, payload)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUploadFailed, err.Error())
	}

	h.logger.Info("Image uploaded", "key", stored.Key, "bytes", len(payload))

	return response.Success(c, http.StatusCreated, stored, "Image uploaded")
}
