// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps uploaded portfolio media in an S3-compatible
// bucket using path-style addressing, so MinIO, CEPH and Hetzner work the
// same as AWS.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config holds the connection settings for the media bucket.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN base; defaults to endpoint/bucket
}

// Enabled reports whether enough is set to talk to a bucket.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Client uploads and removes media objects in one public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
}

// New builds a client. It returns (nil, nil) when cfg is incomplete, which
// leaves the admin with URL entry only.
func New(cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid S3 endpoint %q: %w", cfg.Endpoint, err)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Check confirms the bucket exists and the credentials can reach it.
func (c *Client) Check(ctx context.Context) error {
	if _, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("s3 head bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Upload stores body under key with a public-read ACL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error on S3.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL of key.
func (c *Client) FileURL(key string) string {
	return c.baseURL() + "/" + key
}

// ExtractKey maps a URL produced by FileURL back to its key. URLs that do
// not point into this bucket return ("", false).
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	prefixes := []string{c.endpoint + "/" + c.bucket + "/"}
	if c.publicURL != "" {
		prefixes = append([]string{c.publicURL + "/"}, prefixes...)
	}
	for _, p := range prefixes {
		if key, ok := strings.CutPrefix(rawURL, p); ok && key != "" {
			return key, true
		}
	}
	return "", false
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) baseURL() string {
	if c.publicURL != "" {
		return c.publicURL
	}
	return c.endpoint + "/" + c.bucket
}
