package storage

import (
	"context"
	"io"
)

// Bucket stores objects by key.
type Bucket interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.ReadSeeker, size int64, contentType string) error
	// Head returns the metadata of key, or ErrNotFound.
	Head(ctx context.Context, key string) (*Object, error)
}

// Object describes a stored object.
type Object struct {
	Key         string
	ContentType string
	// ETag without quotes. For single part uploads it is the hex MD5 of the content.
	ETag string
	Size int64
}

// ACL is a canned S3 access control setting.
type ACL string

const (
	ACLPrivate    ACL = "private"
	ACLPublicRead ACL = "public-read"
)

const DefaultRegion = "us-east-1"

// Config holds S3 connection settings, read from the environment by
// caarlos0/env when embedded in a command config.
type Config struct {
	Bucket    string `env:"DUENDE_S3_BUCKET"`
	AccessKey string `env:"DUENDE_S3_ACCESS_KEY"`
	SecretKey string `env:"DUENDE_S3_SECRET_KEY"`
	// Custom endpoint for MinIO and other S3-compatible services.
	Endpoint string `env:"DUENDE_S3_ENDPOINT"`
	Region   string `env:"DUENDE_S3_REGION" envDefault:"us-east-1"`
	ACL      ACL    `env:"DUENDE_S3_ACL" envDefault:"public-read"`
	// Path-style addressing, required by MinIO.
	PathStyle bool `env:"DUENDE_S3_PATH_STYLE"`
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.ACL == "" {
		c.ACL = ACLPublicRead
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
