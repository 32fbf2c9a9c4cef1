// Package blob stores uploaded audio files in an S3-compatible bucket
// (MinIO in development) and returns the public URL clients embed as a
// beat preview.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/beatworks/beatotheque/internal/config"
)

type Store struct {
	Client    *s3.Client
	Bucket    string
	PublicURL string
}

func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3_REGION),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3_ACCESS_KEY,
			cfg.S3_SECRET_KEY,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3_ENDPOINT)
		o.UsePathStyle = true
	})

	return &Store{
		Client:    client,
		Bucket:    cfg.S3_BUCKET,
		PublicURL: strings.TrimRight(cfg.S3_PUBLIC_URL, "/"),
	}, nil
}

// Put uploads the object and returns its public URL.
func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.PublicURL + "/" + key, nil
}
