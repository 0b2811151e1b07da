// Package storage wraps an S3-compatible object store (Cloudflare R2) used
// to persist fetched HTML and audit JSON artifacts, gzip-compressed.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config carries the R2 connection parameters.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// Client uploads gzip-compressed artifacts to an R2 bucket.
type Client struct {
	s3     *s3.Client
	bucket string
}

// New constructs a Client configured for Cloudflare R2: path-style
// addressing, region "auto", and cfg.Endpoint as the base endpoint.
func New(cfg Config) *Client {
	client := s3.New(s3.Options{
		Region:       "auto",
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: client, bucket: cfg.Bucket}
}

// UploadHTML gzip-compresses body and uploads it under key with
// Content-Type text/html and Content-Encoding gzip.
func (c *Client) UploadHTML(ctx context.Context, key string, body []byte) error {
	return c.upload(ctx, key, body, "text/html; charset=utf-8")
}

// UploadJSON gzip-compresses body and uploads it under key with
// Content-Type application/json and Content-Encoding gzip.
func (c *Client) UploadJSON(ctx context.Context, key string, body []byte) error {
	return c.upload(ctx, key, body, "application/json")
}

func (c *Client) upload(ctx context.Context, key string, body []byte, contentType string) error {
	compressed, err := gzipBytes(body)
	if err != nil {
		return fmt.Errorf("storage: gzip failed for %s: %w", key, err)
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(c.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(compressed),
		ContentType:     aws.String(contentType),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("storage: put object %s failed: %w", key, err)
	}
	return nil
}

func gzipBytes(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
