// Package archive stores raw webhook deliveries in an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client objectPutter
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Archive(cfg Config) *S3Archive {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return newS3Archive(s3.New(opts), cfg.Bucket, cfg.Prefix)
}

func newS3Archive(client objectPutter, bucket, prefix string) *S3Archive {
	if prefix == "" {
		prefix = "webhooks/mercadopago"
	}
	return &S3Archive{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key is "<prefix>/<YYYY-MM-DD>/<request-id>.json". Deliveries without a
// request id get a random one.
func (a *S3Archive) Key(requestID string) string {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return path.Join(a.prefix, a.now().UTC().Format("2006-01-02"), requestID+".json")
}

func (a *S3Archive) Archive(ctx context.Context, requestID string, payload []byte) error {
	key := a.Key(requestID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}
