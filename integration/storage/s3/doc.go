// Package s3 implements storage.Bucket for Amazon S3 and S3-compatible
// services such as Cloudflare R2 and MinIO, using the AWS SDK v2.
//
//	bucket, err := s3.New(ctx, s3.Config{
//		Bucket:   "files",
//		Region:   "auto",
//		Endpoint: "https://<account>.r2.cloudflarestorage.com",
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := bucket.List(ctx, storage.ListOptions{Delimiter: storage.DefaultDelimiter})
//
// Empty AccessKeyID and SecretAccessKey fall back to the default AWS credential
// chain. Set ForcePathStyle for MinIO and other services without
// virtual-hosted bucket addressing.
//
// SDK errors are translated to the storage package sentinels
// (storage.ErrObjectNotFound, storage.ErrUploadNotFound, storage.ErrInvalidPart,
// storage.ErrAccessDenied and others), so handlers work identically against any
// Bucket implementation. Use WithS3Client to substitute a mock in tests.
package s3
