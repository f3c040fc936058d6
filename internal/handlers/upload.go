package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vjhub/vjhub-backend/internal/config"
	"github.com/vjhub/vjhub-backend/internal/services"
)

var errUploadsNotConfigured = errors.New("cloudinary credentials not configured")

const maxUploadSize = 10 << 20 // 10 MB

var cloudinaryService *services.CloudinaryService

// InitCloudinaryService wires the upload handler to Cloudinary. Without
// credentials the upload endpoint returns 500 and everything else still works.
func InitCloudinaryService(cfg *config.Config) error {
	if cfg.CloudinaryName == "" {
		return nil
	}
	svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return err
	}
	cloudinaryService = svc
	return nil
}

// UploadFile handles POST /api/upload (authenticated, multipart). The file
// field is "file"; an optional "folder" field groups assets in Cloudinary.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		respondServerError(w, "upload", errUploadsNotConfigured)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondBadRequest(w, "File too large or malformed form data")
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "file field is required")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "vjhub"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	url, err := cloudinaryService.UploadFileFromHeader(ctx, header, folder)
	if err != nil {
		respondServerError(w, "upload file", err)
		return
	}

	respondOK(w, "File uploaded successfully", map[string]interface{}{
		"url": url,
	})
}
