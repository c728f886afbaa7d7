package router

import (
	"io"
	"mime/multipart"
)

// File is an uploaded file part owned by the request Context.
type File struct {
	header *multipart.FileHeader
}

func newFile(fh *multipart.FileHeader) *File {
	return &File{header: fh}
}

// Name returns the client supplied file name.
func (f *File) Name() string {
	return f.header.Filename
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.header.Size
}

// ContentType returns the declared MIME type, application/octet-stream when absent.
func (f *File) ContentType() string {
	if ct := f.header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Open returns a reader over the file content. The caller must close it.
func (f *File) Open() (multipart.File, error) {
	return f.header.Open()
}

// Bytes reads the whole file into memory.
func (f *File) Bytes() ([]byte, error) {
	src, err := f.header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// Header exposes the underlying multipart header.
func (f *File) Header() *multipart.FileHeader {
	return f.header
}
