package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store persists captured photos and hands back a reference that fits in a
// profile slot.
type Store interface {
	Put(ctx context.Context, owner, name string, img Image) (string, error)
	// Link turns a stored reference into something a client can display.
	Link(ctx context.Context, ref string) (string, error)
	// Delete removes the stored photo. Unknown refs are not an error.
	Delete(ctx context.Context, ref string) error
}

// InlineStore keeps the photo inside the reference itself as a data URL.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, _, _ string, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrInvalidImage
	}
	return img.DataURL(), nil
}

func (InlineStore) Link(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// Delete is a no-op: the photo lives and dies with the profile slot.
func (InlineStore) Delete(context.Context, string) error { return nil }

// S3Store uploads photos to a bucket and returns the object key.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewS3Store(ctx context.Context, region, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return newS3Store(s3.NewFromConfig(cfg), bucket), nil
}

func newS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

func (s *S3Store) Put(ctx context.Context, owner, name string, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrInvalidImage
	}
	key := fmt.Sprintf("captures/%s/%s-%s%s", owner, name, uuid.NewString(), img.Extension())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return key, nil
}

func isExternal(ref string) bool {
	return strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, "data:")
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if ref == "" || isExternal(ref) {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from S3: %w", err)
	}
	return nil
}

func (s *S3Store) Link(ctx context.Context, ref string) (string, error) {
	if isExternal(ref) {
		return ref, nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return req.URL, nil
}
