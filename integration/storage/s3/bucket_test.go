package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/storage"
	"github.com/dmitrymomot/bucketdesk/integration/storage/s3"
)

// mockClient records inputs and returns canned outputs.
type mockClient struct {
	listIn     *s3aws.ListObjectsV2Input
	listOut    *s3aws.ListObjectsV2Output
	getOut     *s3aws.GetObjectOutput
	putIn      *s3aws.PutObjectInput
	putBody    []byte
	partIn     *s3aws.UploadPartInput
	completeIn *s3aws.CompleteMultipartUploadInput
	headOut    *s3aws.HeadObjectOutput
	err        error
}

func (m *mockClient) ListObjectsV2(_ context.Context, in *s3aws.ListObjectsV2Input, _ ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	m.listIn = in
	return m.listOut, m.err
}

func (m *mockClient) GetObject(_ context.Context, _ *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	return m.getOut, m.err
}

func (m *mockClient) HeadObject(_ context.Context, _ *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	if m.headOut == nil {
		return nil, &types.NotFound{}
	}
	return m.headOut, nil
}

func (m *mockClient) PutObject(_ context.Context, in *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	m.putIn = in
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.putBody = data
	return &s3aws.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func (m *mockClient) DeleteObject(_ context.Context, _ *s3aws.DeleteObjectInput, _ ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error) {
	return &s3aws.DeleteObjectOutput{}, m.err
}

func (m *mockClient) CreateMultipartUpload(_ context.Context, _ *s3aws.CreateMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.CreateMultipartUploadOutput, error) {
	return &s3aws.CreateMultipartUploadOutput{UploadId: aws.String("upload-1")}, m.err
}

func (m *mockClient) UploadPart(_ context.Context, in *s3aws.UploadPartInput, _ ...func(*s3aws.Options)) (*s3aws.UploadPartOutput, error) {
	m.partIn = in
	return &s3aws.UploadPartOutput{ETag: aws.String(`"part"`)}, m.err
}

func (m *mockClient) CompleteMultipartUpload(_ context.Context, in *s3aws.CompleteMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.CompleteMultipartUploadOutput, error) {
	m.completeIn = in
	return &s3aws.CompleteMultipartUploadOutput{ETag: aws.String(`"final-2"`)}, m.err
}

func (m *mockClient) AbortMultipartUpload(_ context.Context, _ *s3aws.AbortMultipartUploadInput, _ ...func(*s3aws.Options)) (*s3aws.AbortMultipartUploadOutput, error) {
	return &s3aws.AbortMultipartUploadOutput{}, m.err
}

func newBucket(t *testing.T, client *mockClient) *s3.Bucket {
	t.Helper()
	b, err := s3.New(context.Background(), s3.Config{Bucket: "files", Region: "auto"}, s3.WithS3Client(client))
	require.NoError(t, err)
	return b
}

func TestNewRequiresBucketAndRegion(t *testing.T) {
	t.Parallel()

	_, err := s3.New(context.Background(), s3.Config{Region: "auto"})
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)

	_, err = s3.New(context.Background(), s3.Config{Bucket: "files"})
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestList(t *testing.T) {
	t.Parallel()

	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	client := &mockClient{listOut: &s3aws.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("docs/a.txt"), Size: aws.Int64(3), ETag: aws.String(`"e1"`), LastModified: &modified},
		},
		CommonPrefixes:        []types.CommonPrefix{{Prefix: aws.String("docs/img/")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("next"),
	}}
	b := newBucket(t, client)

	res, err := b.List(context.Background(), storage.ListOptions{
		Prefix:    "docs/",
		Delimiter: "/",
		Limit:     5000,
		Cursor:    "prev",
	})
	require.NoError(t, err)

	assert.Equal(t, "docs/", aws.ToString(client.listIn.Prefix))
	assert.Equal(t, "/", aws.ToString(client.listIn.Delimiter))
	assert.Equal(t, int32(storage.MaxListLimit), aws.ToInt32(client.listIn.MaxKeys))
	assert.Equal(t, "prev", aws.ToString(client.listIn.ContinuationToken))

	require.Len(t, res.Objects, 1)
	assert.Equal(t, "docs/a.txt", res.Objects[0].Key)
	assert.Equal(t, int64(3), res.Objects[0].Size)
	assert.Equal(t, modified, res.Objects[0].LastModified)
	assert.Equal(t, []string{"docs/img/"}, res.DelimitedPrefixes)
	assert.True(t, res.Truncated)
	assert.Equal(t, "next", res.Cursor)
}

func TestListEmpty(t *testing.T) {
	t.Parallel()

	b := newBucket(t, &mockClient{listOut: &s3aws.ListObjectsV2Output{}})
	res, err := b.List(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, res.Objects)
	assert.NotNil(t, res.DelimitedPrefixes)
	assert.Empty(t, res.Cursor)
}

func TestGet(t *testing.T) {
	t.Parallel()

	client := &mockClient{getOut: &s3aws.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader("hello")),
		ContentLength: aws.Int64(5),
		ContentType:   aws.String("text/plain"),
		ETag:          aws.String(`"e"`),
	}}
	b := newBucket(t, client)

	obj, err := b.Get(context.Background(), "a.txt")
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.Equal(t, int64(5), obj.Size)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	b := newBucket(t, &mockClient{err: &types.NoSuchKey{}})
	_, err := b.Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	_, err = b.Get(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestPutSeekableBody(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	b := newBucket(t, client)

	info, err := b.Put(context.Background(), "a.txt", bytes.NewReader([]byte("hello")), storage.PutOptions{ContentType: "text/plain"})
	require.NoError(t, err)

	assert.Equal(t, int64(5), aws.ToInt64(client.putIn.ContentLength))
	assert.Equal(t, "text/plain", aws.ToString(client.putIn.ContentType))
	assert.Equal(t, "hello", string(client.putBody))
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, `"abc"`, info.ETag)
}

func TestPutStreamingBody(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	b := newBucket(t, client)

	body := io.MultiReader(strings.NewReader("he"), strings.NewReader("llo"))
	info, err := b.Put(context.Background(), "a.txt", body, storage.PutOptions{})
	require.NoError(t, err)

	assert.Nil(t, client.putIn.ContentLength)
	assert.Nil(t, client.putIn.ContentType)
	assert.Equal(t, int64(5), info.Size)
}

func TestUploadPart(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	b := newBucket(t, client)

	etag, err := b.UploadPart(context.Background(), "big.bin", "upload-1", 2, strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, `"part"`, etag)
	assert.Equal(t, int32(2), aws.ToInt32(client.partIn.PartNumber))
	assert.Equal(t, int64(4), aws.ToInt64(client.partIn.ContentLength))

	_, err = b.UploadPart(context.Background(), "big.bin", "", 1, strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, storage.ErrUploadNotFound)
}

func TestCompleteMultipartUpload(t *testing.T) {
	t.Parallel()

	client := &mockClient{headOut: &s3aws.HeadObjectOutput{
		ContentLength: aws.Int64(42),
		ContentType:   aws.String("application/zip"),
	}}
	b := newBucket(t, client)

	info, err := b.CompleteMultipartUpload(context.Background(), "big.zip", "upload-1", []storage.CompletedPart{
		{PartNumber: 2, ETag: "bbb"},
		{PartNumber: 1, ETag: `"aaa"`},
	})
	require.NoError(t, err)

	parts := client.completeIn.MultipartUpload.Parts
	require.Len(t, parts, 2)
	assert.Equal(t, int32(1), aws.ToInt32(parts[0].PartNumber))
	assert.Equal(t, `"aaa"`, aws.ToString(parts[0].ETag))
	assert.Equal(t, `"bbb"`, aws.ToString(parts[1].ETag))

	assert.Equal(t, `"final-2"`, info.ETag)
	assert.Equal(t, int64(42), info.Size)
	assert.Equal(t, "application/zip", info.ContentType)

	_, err = b.CompleteMultipartUpload(context.Background(), "big.zip", "upload-1", nil)
	assert.ErrorIs(t, err, storage.ErrInvalidPart)
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such upload", &types.NoSuchUpload{}, storage.ErrUploadNotFound},
		{"no such bucket", &types.NoSuchBucket{}, storage.ErrBucketNotFound},
		{"invalid part", &smithy.GenericAPIError{Code: "InvalidPart"}, storage.ErrInvalidPart},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, storage.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, storage.ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, storage.ErrOperationTimeout},
		{"canceled", context.Canceled, storage.ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := newBucket(t, &mockClient{err: tt.err})
			err := b.AbortMultipartUpload(context.Background(), "k", "u")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnknownErrorIsWrapped(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	b := newBucket(t, &mockClient{err: cause})

	err := b.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "delete operation failed")
}
