// Package objectstore signs short-lived URLs for objects in a Cloud Storage
// bucket so browsers can upload and download without proxying through the API.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// SignedURLTTL is how long every signed URL stays valid.
const SignedURLTTL = 15 * time.Minute

// Config holds the bucket and the service account used for signing.
type Config struct {
	Bucket          string
	AccessID        string
	PrivateKey      string
	CredentialsFile string
}

// NewClient builds a storage client. Signing needs no API access, so without a
// credentials file the client is unauthenticated.
func NewClient(ctx context.Context, cfg Config) (*storage.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile), option.WithScopes(storage.ScopeFullControl))
	} else {
		opts = append(opts, option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// Signer produces V4 signed URLs for one bucket.
type Signer struct {
	bucket     *storage.BucketHandle
	accessID   string
	privateKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewSigner creates a Signer for cfg.Bucket.
func NewSigner(client *storage.Client, cfg Config) (*Signer, error) {
	if cfg.Bucket == "" || cfg.AccessID == "" || cfg.PrivateKey == "" {
		return nil, errors.New("bucket, access id and private key are required")
	}
	return &Signer{
		bucket:     client.Bucket(cfg.Bucket),
		accessID:   cfg.AccessID,
		privateKey: []byte(cfg.PrivateKey),
		ttl:        SignedURLTTL,
		now:        time.Now,
	}, nil
}

// UploadURL signs a PUT for key. The upload must send the same Content-Type.
func (s *Signer) UploadURL(key, contentType string) (string, error) {
	return s.sign(key, "PUT", contentType)
}

// DownloadURL signs a GET for key.
func (s *Signer) DownloadURL(key string) (string, error) {
	return s.sign(key, "GET", "")
}

func (s *Signer) sign(key, method, contentType string) (string, error) {
	url, err := s.bucket.SignedURL(key, &storage.SignedURLOptions{
		GoogleAccessID: s.accessID,
		PrivateKey:     s.privateKey,
		Method:         method,
		ContentType:    contentType,
		Expires:        s.now().Add(s.ttl),
		Scheme:         storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign %s url for %s: %w", method, key, err)
	}
	return url, nil
}

// CORSRules returns the bucket CORS configuration browsers need to use
// signed URLs from origins.
func CORSRules(origins []string) []storage.CORS {
	return []storage.CORS{{
		Origins:         origins,
		Methods:         []string{"GET", "PUT", "HEAD", "DELETE"},
		ResponseHeaders: []string{"Content-Type", "ETag"},
		MaxAge:          600 * time.Second,
	}}
}

// ApplyCORS replaces the CORS configuration of bucket.
func ApplyCORS(ctx context.Context, client *storage.Client, bucket string, origins []string) error {
	_, err := client.Bucket(bucket).Update(ctx, storage.BucketAttrsToUpdate{CORS: CORSRules(origins)})
	if err != nil {
		return fmt.Errorf("failed to update CORS of bucket %s: %w", bucket, err)
	}
	return nil
}
