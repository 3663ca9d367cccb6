// Package minio reads uploaded catalog files from S3-compatible object
// storage.
//
// Upload requests carry a file reference that is the object key inside
// the configured bucket:
//
//	client, err := minio.NewClient(cfg)
//	rc, err := client.Open(ctx, "uploads/acme/2024-05-01.csv")
//	defer rc.Close()
//
// # Configuration
//
//	MINIO_ENDPOINT=localhost:9000
//	MINIO_ACCESS_KEY_ID=...
//	MINIO_SECRET_ACCESS_KEY=...
//	MINIO_BUCKET=catalog-uploads
//	MINIO_MAX_OBJECT_SIZE=104857600
package minio
