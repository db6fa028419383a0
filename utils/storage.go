package utils

import (
	"bytes"
	"context"
	"fmt"

	"internhub/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult is what callers need to persist after a successful upload.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// Uploader stores a rendered document under a stable public id. Re-uploading
// the same id overwrites the previous version so regenerated documents keep
// their URL.
type Uploader interface {
	UploadPDF(ctx context.Context, data []byte, publicID string) (*UploadResult, error)
}

// CloudinaryUploader pushes documents to the configured Cloudinary account.
type CloudinaryUploader struct{}

func (CloudinaryUploader) UploadPDF(ctx context.Context, data []byte, publicID string) (*UploadResult, error) {
	cld, err := cloudinary.NewFromParams(
		config.AppConfig.StorageCloudName,
		config.AppConfig.StorageAPIKey,
		config.AppConfig.StorageAPISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("storage client init failed: %w", err)
	}

	resp, err := cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "raw",
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("document upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("document upload failed: %s", resp.Error.Message)
	}

	return &UploadResult{SecureURL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
