// Package labelstore persists label artifacts in S3-compatible object
// storage. The path recorded on orders and labels is the object key; the
// bucket is configuration, not data.
package labelstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const labelContentType = "application/pdf"

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements LabelStore over an S3 bucket.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3Store creates a label store writing to the given bucket.
func NewS3Store(client s3API, bucket string) (*S3Store, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("s3 client")
	}
	if bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

// Save stores the artifact under the given key and returns the path that
// retrieves it later.
func (s *S3Store) Save(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}
	if len(data) == 0 {
		return "", errs.NewValueIsRequiredError("data")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(labelContentType),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Fetch retrieves a previously saved artifact by its path.
func (s *S3Store) Fetch(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errs.NewValueIsRequiredError("path")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, errs.NewObjectNotFoundErrorWithCause("label artifact", path, err)
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()

	return io.ReadAll(out.Body)
}

// Delete removes a stored artifact. S3 object deletion is idempotent, so a
// missing artifact is not an error.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	if path == "" {
		return errs.NewValueIsRequiredError("path")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	return err
}
