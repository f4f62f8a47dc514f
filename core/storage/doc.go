// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the image
// publisher needs. This supports both AWS S3 and self-hosted MinIO.
//
// # Client Interface
//
// The Client interface makes storage interactions easy to mock in unit tests
// (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket provisioning (see EnsureBucket).
//   - PutObject: uploads piece images.
//   - ListObjects / RemoveObjects: removes the images of deleted layouts.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
