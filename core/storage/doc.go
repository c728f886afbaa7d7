// Package storage defines the backing object-store contract used by the file
// manager and ships an in-memory implementation for tests and local runs.
//
// A Bucket is a flat key-value blob service. Folders are a naming convention:
// keys sharing a prefix up to DefaultDelimiter are rolled up into
// DelimitedPrefixes when listing with a delimiter.
//
// # Usage
//
//	bucket := storage.NewMemoryBucket()
//
//	info, err := bucket.Put(ctx, "docs/readme.txt", strings.NewReader("hello"), storage.PutOptions{
//		ContentType: "text/plain",
//	})
//	if err != nil {
//		return err
//	}
//
//	page, err := bucket.List(ctx, storage.ListOptions{Prefix: "docs/", Delimiter: storage.DefaultDelimiter})
//
// # Paging
//
// A truncated page carries a Cursor; pass it back to continue. Limit counts
// objects and folder prefixes alike, and a folder appears once across all
// pages even when its keys straddle a page boundary:
//
//	opts := storage.ListOptions{Delimiter: storage.DefaultDelimiter, Limit: 100}
//	for {
//		page, err := bucket.List(ctx, opts)
//		if err != nil {
//			return err
//		}
//		// use page.Objects and page.DelimitedPrefixes
//		if !page.Truncated {
//			break
//		}
//		opts.Cursor = page.Cursor
//	}
//
// # Multipart uploads
//
// Large objects are uploaded in numbered parts. The session is owned by the
// bucket; part ordering is the client's responsibility.
//
//	uploadID, _ := bucket.CreateMultipartUpload(ctx, "video.mp4", storage.PutOptions{})
//	etag, _ := bucket.UploadPart(ctx, "video.mp4", uploadID, 1, part, int64(len(partBytes)))
//	obj, _ := bucket.CompleteMultipartUpload(ctx, "video.mp4", uploadID, []storage.CompletedPart{
//		{PartNumber: 1, ETag: etag},
//	})
//
// # Errors
//
// Missing objects are reported as ErrObjectNotFound, unknown upload sessions as
// ErrUploadNotFound. Backend failures that should reach API clients as a 500
// are wrapped in *BackendError, whose Message is safe to expose while Err is
// only logged.
package storage
