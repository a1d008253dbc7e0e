package filestorage

import (
	"bytes"
	"context"
	"net/url"
	"time"

	s3client "intavia-backend/s3"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var Instance Provider

type Provider interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	Remove(ctx context.Context, bucket, path string) error
}

func NewHandler() {
	Instance = &impl{}
}

type impl struct{}

func (i impl) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	exists, err := s3client.Client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "bucket check failed")
	}
	if !exists {
		err = s3client.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return errors.Wrap(err, "bucket creation failed")
		}
	}
	_, err = s3client.Client.PutObject(ctx, bucket, path, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "object upload failed")
	}
	return nil
}

func (i impl) PresignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	signedURL, err := s3client.Client.PresignedGetObject(ctx, bucket, path, ttl, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "url signing failed")
	}
	return signedURL.String(), nil
}

func (i impl) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	obj, err := s3client.Client.GetObject(ctx, bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "object download failed")
	}
	defer obj.Close()
	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(obj); err != nil {
		return nil, errors.Wrap(err, "object read failed")
	}
	return buf.Bytes(), nil
}

func (i impl) Remove(ctx context.Context, bucket, path string) error {
	err := s3client.Client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "object removal failed")
	}
	return nil
}
