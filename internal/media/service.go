package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alluringfresh/alluring-backend/pkg/config"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/storage/gcs"
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type objectStore interface {
	SignedUploadURL(object, contentType string, expiry time.Duration) (string, error)
	PublicURL(object string) string
	DeleteObject(ctx context.Context, object string) error
}

// PresignRequest describes the upload an admin is about to perform.
type PresignRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// PresignResponse carries the signed PUT URL and the object's final address.
type PresignResponse struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service mints signed upload URLs for product imagery and cleans up
// objects that are no longer referenced.
type Service interface {
	PresignUpload(ctx context.Context, req PresignRequest) (*PresignResponse, error)
	RemoveImage(ctx context.Context, imageURL string) error
}

// ServiceParams groups dependencies for the media service.
type ServiceParams struct {
	Store objectStore
	GCS   config.GCSConfig
	Media config.MediaConfig
}

type service struct {
	store  objectStore
	expiry time.Duration
	maxMB  int
}

// NewService builds a media service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object store is required")
	}
	expiry := params.GCS.UploadURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	maxMB := params.Media.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 5
	}
	return &service{
		store:  params.Store,
		expiry: expiry,
		maxMB:  maxMB,
	}, nil
}

// PresignUpload validates the upload and mints a one-shot signed PUT URL
// under products/<uuid><ext>.
func (s *service) PresignUpload(_ context.Context, req PresignRequest) (*PresignResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type must be image/jpeg, image/png or image/webp")
	}
	if req.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	if req.SizeBytes > int64(s.maxMB)*1024*1024 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %dMB upload limit", s.maxMB))
	}

	objectKey := path.Join("products", uuid.NewString()+ext)

	uploadURL, err := s.store.SignedUploadURL(objectKey, contentType, s.expiry)
	if err != nil {
		if errors.Is(err, gcs.ErrSigningUnavailable) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload signing is not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResponse{
		UploadURL: uploadURL,
		PublicURL: s.store.PublicURL(objectKey),
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(s.expiry),
	}, nil
}

// RemoveImage deletes the object backing a product image URL. URLs that do
// not point into the configured bucket are left alone.
func (s *service) RemoveImage(ctx context.Context, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil
	}

	prefix := s.store.PublicURL("")
	objectKey := strings.TrimPrefix(imageURL, prefix)
	if objectKey == imageURL || objectKey == "" {
		return nil
	}

	if err := s.store.DeleteObject(ctx, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image object")
	}
	return nil
}
