package minio

import "time"

// Config holds the MinIO connection used to read uploaded catalog files.
type Config struct {
	Endpoint        string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	// BucketName is the bucket upload file references are resolved against.
	BucketName string `envconfig:"MINIO_BUCKET" default:"catalog-uploads"`
	Region     string `envconfig:"MINIO_REGION" default:"us-east-1"`

	// MaxObjectSize bounds how much of a single upload is read.
	MaxObjectSize int64 `envconfig:"MINIO_MAX_OBJECT_SIZE" default:"104857600"`
	// CreateBucket makes the bucket on startup when it is missing.
	CreateBucket bool          `envconfig:"MINIO_CREATE_BUCKET" default:"false"`
	Timeout      time.Duration `envconfig:"MINIO_TIMEOUT" default:"30s"`
}
