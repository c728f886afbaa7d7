package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrymomot/bucketdesk/core/storage"
)

var _ storage.Bucket = (*Bucket)(nil)

// S3Client defines the subset of the S3 API used by Bucket.
type S3Client interface {
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	CreateMultipartUpload(ctx context.Context, params *s3aws.CreateMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3aws.UploadPartInput, optFns ...func(*s3aws.Options)) (*s3aws.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3aws.CompleteMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3aws.AbortMultipartUploadInput, optFns ...func(*s3aws.Options)) (*s3aws.AbortMultipartUploadOutput, error)
}

// Config contains connection settings for an S3-compatible bucket.
type Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" envDefault:"auto"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`         // R2, MinIO, Wasabi
	ForcePathStyle  bool   `env:"S3_FORCE_PATH_STYLE"` // required for MinIO
}

// Bucket implements storage.Bucket on top of Amazon S3 and S3-compatible services.
// Safe for concurrent use.
type Bucket struct {
	client        S3Client
	bucket        string
	uploadTimeout time.Duration
}

// Option configures Bucket construction.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	uploadTimeout   time.Duration
}

// WithS3Client sets a pre-configured S3 client. Mostly used with mocks in tests.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithConfigOption adds a custom AWS config load option.
func WithConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithClientOption adds a custom S3 client option.
func WithClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithUploadTimeout bounds Put and UploadPart calls.
// Without it the caller's context deadline applies.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = timeout
	}
}

// New creates a Bucket. Credentials fall back to the default AWS chain
// when the static key pair is empty.
func New(ctx context.Context, cfg Config, opts ...Option) (*Bucket, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, storage.ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				)),
			)
		}

		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	return &Bucket{
		client:        client,
		bucket:        cfg.Bucket,
		uploadTimeout: o.uploadTimeout,
	}, nil
}

// List returns a single page of objects under opts.Prefix.
// The cursor is the S3 continuation token.
func (b *Bucket) List(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
	limit := opts.Limit
	if limit <= 0 || limit > storage.MaxListLimit {
		limit = storage.MaxListLimit
	}

	input := &s3aws.ListObjectsV2Input{
		Bucket:  aws.String(b.bucket),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.Cursor != "" {
		input.ContinuationToken = aws.String(opts.Cursor)
	}

	out, err := b.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, classifyS3Error(err, "list")
	}

	result := &storage.ListResult{
		Objects:           make([]storage.ObjectInfo, 0, len(out.Contents)),
		DelimitedPrefixes: make([]string, 0, len(out.CommonPrefixes)),
		Truncated:         aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		result.Objects = append(result.Objects, storage.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         aws.ToString(obj.ETag),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	for _, p := range out.CommonPrefixes {
		result.DelimitedPrefixes = append(result.DelimitedPrefixes, aws.ToString(p.Prefix))
	}
	if result.Truncated {
		result.Cursor = aws.ToString(out.NextContinuationToken)
	}

	return result, nil
}

// Get fetches the object and its body. The caller must close the body.
func (b *Bucket) Get(ctx context.Context, key string) (*storage.Object, error) {
	if key == "" {
		return nil, storage.ErrInvalidKey
	}

	out, err := b.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get")
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &storage.Object{
		ObjectInfo: storage.ObjectInfo{
			Key:          key,
			Size:         size,
			ETag:         aws.ToString(out.ETag),
			ContentType:  aws.ToString(out.ContentType),
			LastModified: aws.ToTime(out.LastModified),
		},
		Body: out.Body,
	}, nil
}

// Put uploads body under key. Seekable bodies are sent with a known
// content length; others are streamed and counted.
func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, opts storage.PutOptions) (*storage.ObjectInfo, error) {
	if key == "" {
		return nil, storage.ErrInvalidKey
	}

	ctx, cancel := b.withUploadTimeout(ctx)
	defer cancel()

	input := &s3aws.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	var counter *countingReader
	size, err := seekableSize(body)
	switch {
	case err != nil:
		return nil, storage.NewBackendError("put", "Failed to upload file", err)
	case size >= 0:
		input.Body = body
		input.ContentLength = aws.Int64(size)
	default:
		counter = &countingReader{r: body}
		input.Body = counter
	}

	out, err := b.client.PutObject(ctx, input)
	if err != nil {
		return nil, classifyS3Error(err, "put")
	}
	if counter != nil {
		size = counter.n
	}

	return &storage.ObjectInfo{
		Key:          key,
		Size:         size,
		ETag:         aws.ToString(out.ETag),
		ContentType:  opts.ContentType,
		LastModified: time.Now().UTC(),
	}, nil
}

// Delete removes the object. S3 treats deletion of a missing key as success.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}

	_, err := b.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, "delete")
	}
	return nil
}

// CreateMultipartUpload starts a multipart session.
func (b *Bucket) CreateMultipartUpload(ctx context.Context, key string, opts storage.PutOptions) (string, error) {
	if key == "" {
		return "", storage.ErrInvalidKey
	}

	input := &s3aws.CreateMultipartUploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	out, err := b.client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", classifyS3Error(err, "create multipart upload")
	}
	return aws.ToString(out.UploadId), nil
}

// UploadPart uploads one part. A negative size leaves the content length unset.
func (b *Bucket) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", storage.ErrInvalidKey
	}
	if uploadID == "" {
		return "", storage.ErrUploadNotFound
	}

	ctx, cancel := b.withUploadTimeout(ctx)
	defer cancel()

	input := &s3aws.UploadPartInput{
		Bucket:     aws.String(b.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
		Body:       body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	out, err := b.client.UploadPart(ctx, input)
	if err != nil {
		return "", classifyS3Error(err, "upload part")
	}
	return aws.ToString(out.ETag), nil
}

// CompleteMultipartUpload assembles the parts and reads back the final object metadata.
func (b *Bucket) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []storage.CompletedPart) (*storage.ObjectInfo, error) {
	if key == "" {
		return nil, storage.ErrInvalidKey
	}
	if len(parts) == 0 {
		return nil, storage.ErrInvalidPart
	}

	sorted := slices.Clone(parts)
	slices.SortFunc(sorted, func(a, b storage.CompletedPart) int {
		return int(a.PartNumber) - int(b.PartNumber)
	})

	completed := make([]types.CompletedPart, 0, len(sorted))
	for _, p := range sorted {
		completed = append(completed, types.CompletedPart{
			PartNumber: aws.Int32(p.PartNumber),
			ETag:       aws.String(quoteETag(p.ETag)),
		})
	}

	out, err := b.client.CompleteMultipartUpload(ctx, &s3aws.CompleteMultipartUploadInput{
		Bucket:          aws.String(b.bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return nil, classifyS3Error(err, "complete multipart upload")
	}

	info := &storage.ObjectInfo{
		Key:          key,
		Size:         -1,
		ETag:         aws.ToString(out.ETag),
		LastModified: time.Now().UTC(),
	}

	head, err := b.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		// The object exists; metadata is best effort.
		return info, nil
	}
	info.Size = aws.ToInt64(head.ContentLength)
	info.ContentType = aws.ToString(head.ContentType)
	if head.LastModified != nil {
		info.LastModified = *head.LastModified
	}
	return info, nil
}

// AbortMultipartUpload discards the multipart session.
func (b *Bucket) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}

	_, err := b.client.AbortMultipartUpload(ctx, &s3aws.AbortMultipartUploadInput{
		Bucket:   aws.String(b.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return classifyS3Error(err, "abort multipart upload")
	}
	return nil
}

func (b *Bucket) withUploadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.uploadTimeout > 0 {
		return context.WithTimeout(ctx, b.uploadTimeout)
	}
	return ctx, func() {}
}

// seekableSize returns the remaining length of a seekable body, or -1.
func seekableSize(r io.Reader) (int64, error) {
	s, ok := r.(io.Seeker)
	if !ok {
		return -1, nil
	}
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1, nil
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, errors.Join(errors.New("seek body"), err)
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return -1, errors.Join(errors.New("rewind body"), err)
	}
	return end - cur, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func quoteETag(etag string) string {
	if strings.HasPrefix(etag, `"`) {
		return etag
	}
	return `"` + etag + `"`
}
