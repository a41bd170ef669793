package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// ArtifactStore keeps rendered documents in the archive bucket.
type ArtifactStore struct {
	client *MinIOClient
	logger logging.Logger
}

var _ reporting.ArtifactStore = (*ArtifactStore)(nil)

func NewArtifactStore(client *MinIOClient, log logging.Logger) *ArtifactStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ArtifactStore{client: client, logger: log.Named("artifact_store")}
}

// Save overwrites key with data.
func (s *ArtifactStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	if s.client.isClosed() {
		return ErrMinIOClientClosed
	}
	if key == "" || len(data) == 0 {
		return errors.InvalidParam("object key and content are required")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	info, err := s.client.client.PutObject(ctx, s.client.Bucket(), key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to upload object").WithDetail(key)
	}
	s.logger.Debug("Object uploaded",
		logging.String("bucket", s.client.Bucket()),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return nil
}

// Get reads the whole object at key.  A missing object is ErrCodeNotFound.
func (s *ArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}
	obj, err := s.client.client.GetObject(ctx, s.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapError(err, key)
	}
	return data, nil
}

// Exists reports whether key is present.
func (s *ArtifactStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.client.StatObject(ctx, s.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat object").WithDetail(key)
	}
	return true, nil
}

// PresignedURL returns a GET link for key.  A zero expiry uses the
// configured default.
func (s *ArtifactStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.client.config.PresignExpiry
	}
	u, err := s.client.client.PresignedGetObject(ctx, s.client.Bucket(), key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign url").WithDetail(key)
	}
	return u.String(), nil
}

func (s *ArtifactStore) mapError(err error, key string) error {
	if isNoSuchKey(err) {
		return errors.New(errors.ErrCodeNotFound, "object not found").WithDetail(key)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "failed to download object").WithDetail(key)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

//Personal.AI order the ending
