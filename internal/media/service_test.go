package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alluringfresh/alluring-backend/pkg/config"
	pkgerrors "github.com/alluringfresh/alluring-backend/pkg/errors"
	"github.com/alluringfresh/alluring-backend/pkg/storage/gcs"
)

type stubStore struct {
	signedObject  string
	signedType    string
	signErr       error
	deletedObject string
	deleteErr     error
}

func (s *stubStore) SignedUploadURL(object, contentType string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	s.signedObject = object
	s.signedType = contentType
	return "https://storage.example.com/upload/" + object, nil
}

func (s *stubStore) PublicURL(object string) string {
	return "https://storage.example.com/bucket/" + object
}

func (s *stubStore) DeleteObject(_ context.Context, object string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedObject = object
	return nil
}

func newMediaService(t *testing.T, store objectStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store: store,
		GCS:   config.GCSConfig{UploadURLExpiry: 10 * time.Minute},
		Media: config.MediaConfig{MaxUploadMB: 5},
	})
	require.NoError(t, err)
	return svc
}

func TestPresignUploadBuildsProductObjectKey(t *testing.T) {
	signer := &stubStore{}
	svc := newMediaService(t, signer)

	resp, err := svc.PresignUpload(context.Background(), PresignRequest{
		FileName:    "mango.jpeg",
		ContentType: "Image/JPEG",
		SizeBytes:   1024,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ObjectKey, "products/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".jpg"))
	assert.Equal(t, resp.ObjectKey, signer.signedObject)
	assert.Equal(t, "image/jpeg", signer.signedType)
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)
	assert.Contains(t, resp.PublicURL, resp.ObjectKey)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestPresignUploadRejectsUnsupportedContentType(t *testing.T) {
	svc := newMediaService(t, &stubStore{})

	_, err := svc.PresignUpload(context.Background(), PresignRequest{
		FileName:    "listing.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPresignUploadEnforcesSizeLimit(t *testing.T) {
	svc := newMediaService(t, &stubStore{})
	ctx := context.Background()

	_, err := svc.PresignUpload(ctx, PresignRequest{ContentType: "image/png", SizeBytes: 0})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.PresignUpload(ctx, PresignRequest{ContentType: "image/png", SizeBytes: 6 * 1024 * 1024})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRemoveImageDeletesManagedObject(t *testing.T) {
	store := &stubStore{}
	svc := newMediaService(t, store)

	err := svc.RemoveImage(context.Background(), "https://storage.example.com/bucket/products/mango.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/mango.jpg", store.deletedObject)
}

func TestRemoveImageIgnoresForeignURLs(t *testing.T) {
	store := &stubStore{}
	svc := newMediaService(t, store)

	require.NoError(t, svc.RemoveImage(context.Background(), "https://cdn.elsewhere.com/mango.jpg"))
	require.NoError(t, svc.RemoveImage(context.Background(), "  "))
	assert.Empty(t, store.deletedObject)
}

func TestRemoveImageReportsStoreFailure(t *testing.T) {
	store := &stubStore{deleteErr: errors.New("boom")}
	svc := newMediaService(t, store)

	err := svc.RemoveImage(context.Background(), "https://storage.example.com/bucket/products/mango.jpg")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestPresignUploadSigningUnavailable(t *testing.T) {
	svc := newMediaService(t, &stubStore{signErr: gcs.ErrSigningUnavailable})

	_, err := svc.PresignUpload(context.Background(), PresignRequest{
		ContentType: "image/webp",
		SizeBytes:   1024,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
