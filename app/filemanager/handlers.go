package filemanager

import (
	"errors"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
	"github.com/dmitrymomot/bucketdesk/core/storage"
)

// MaxPartNumber is the highest part number a multipart upload accepts.
const MaxPartNumber = 10000

// downloadMaxAge is the Cache-Control max-age of downloads and the client config.
const downloadMaxAge = time.Hour

var errPartNumberRange = errors.New("part number must be between 1 and 10000")

type handlers struct {
	svc *Service
	cfg Config
}

// listFiles handles GET /api/files/list?prefix=&cursor=.
func (h *handlers) listFiles(ctx *router.Context) handler.Response {
	prefix, _ := ctx.QueryParam("prefix")
	cursor, _ := ctx.QueryParam("cursor")

	res, err := h.svc.List(ctx, prefix, cursor)
	if err != nil {
		return response.Error(err)
	}
	return response.Success(res)
}

// getFile handles GET /api/files/get?key=.
func (h *handlers) getFile(ctx *router.Context) handler.Response {
	key, err := ctx.RequiredQueryParam("key")
	if err != nil {
		return response.Error(err)
	}

	obj, err := h.svc.Get(ctx, key)
	if err != nil {
		return response.Error(err)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return response.WithCache(response.Attachment(obj.Body, path.Base(key), contentType, obj.Size), downloadMaxAge)
}

// uploadFile handles POST /api/files/upload with multipart fields "file" and optional "path".
func (h *handlers) uploadFile(ctx *router.Context) handler.Response {
	file, err := ctx.RequiredFile("file")
	if err != nil {
		return response.Error(err)
	}

	key := path.Base(file.Name())
	if dir, _ := ctx.FormValue("path"); strings.Trim(dir, "/") != "" {
		key = strings.Trim(dir, "/") + "/" + key
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(storage.NewBackendError("upload", "Failed to upload file", err))
	}
	defer src.Close()

	if _, err := h.svc.Upload(ctx, key, src, file.ContentType()); err != nil {
		return response.Error(err)
	}
	return response.Success(map[string]string{"key": key})
}

// deleteFile handles DELETE /api/files/delete?key=.
func (h *handlers) deleteFile(ctx *router.Context) handler.Response {
	key, err := ctx.RequiredQueryParam("key")
	if err != nil {
		return response.Error(err)
	}
	if err := h.svc.Delete(ctx, key); err != nil {
		return response.Error(err)
	}
	return response.OK()
}

// listFolders handles GET /api/files/folders.
func (h *handlers) listFolders(ctx *router.Context) handler.Response {
	folders, err := h.svc.Folders(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.Success(folders)
}

// searchFiles handles GET /api/files/search?query=&prefix=.
func (h *handlers) searchFiles(ctx *router.Context) handler.Response {
	query, err := ctx.RequiredQueryParam("query")
	if err != nil {
		return response.Error(err)
	}
	prefix, _ := ctx.QueryParam("prefix")

	res, err := h.svc.Search(ctx, query, prefix)
	if err != nil {
		return response.Error(err)
	}
	return response.Success(res)
}

type multipartInitResponse struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// initMultipart handles POST /api/files/multipart/init?key=.
func (h *handlers) initMultipart(ctx *router.Context) handler.Response {
	key, err := ctx.RequiredQueryParam("key")
	if err != nil {
		return response.Error(err)
	}
	contentType, _ := ctx.QueryParam("contentType")

	id, err := h.svc.InitMultipart(ctx, key, contentType)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(multipartInitResponse{UploadID: id, Key: key})
}

// uploadPart handles POST /api/files/multipart/upload?key=&uploadId=&partNumber= with a raw body.
func (h *handlers) uploadPart(ctx *router.Context) handler.Response {
	key, err := ctx.RequiredQueryParam("key")
	if err != nil {
		return response.Error(err)
	}
	uploadID, err := ctx.RequiredQueryParam("uploadId")
	if err != nil {
		return response.Error(err)
	}
	partNumber, err := partNumberParam(ctx)
	if err != nil {
		return response.Error(err)
	}

	req := ctx.Request()
	etag, err := h.svc.UploadPart(ctx, key, uploadID, partNumber, req.Body, req.ContentLength)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(map[string]string{"etag": etag})
}

func partNumberParam(ctx *router.Context) (int32, error) {
	raw, err := ctx.RequiredQueryParam("partNumber")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &router.InvalidParameterError{Key: "partNumber", Err: err}
	}
	if n < 1 || n > MaxPartNumber {
		return 0, &router.InvalidParameterError{Key: "partNumber", Err: errPartNumberRange}
	}
	return int32(n), nil
}

type multipartRequest struct {
	Key      string                  `json:"key"`
	UploadID string                  `json:"uploadId"`
	Parts    []storage.CompletedPart `json:"parts"`
}

func (h *handlers) decodeMultipartRequest(ctx *router.Context, needParts bool) (multipartRequest, error) {
	var req multipartRequest
	if err := ctx.DecodeJSON(&req); err != nil {
		return req, err
	}
	switch {
	case req.Key == "":
		return req, &router.MissingParameterError{Source: "field", Key: "key"}
	case req.UploadID == "":
		return req, &router.MissingParameterError{Source: "field", Key: "uploadId"}
	case needParts && len(req.Parts) == 0:
		return req, &router.MissingParameterError{Source: "field", Key: "parts"}
	}
	return req, nil
}

type multipartCompleteResponse struct {
	Success bool   `json:"success"`
	ETag    string `json:"etag"`
	Key     string `json:"key"`
}

// completeMultipart handles POST /api/files/multipart/complete with a JSON body.
func (h *handlers) completeMultipart(ctx *router.Context) handler.Response {
	req, err := h.decodeMultipartRequest(ctx, true)
	if err != nil {
		return response.Error(err)
	}

	info, err := h.svc.CompleteMultipart(ctx, req.Key, req.UploadID, req.Parts)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(multipartCompleteResponse{Success: true, ETag: info.ETag, Key: req.Key})
}

// abortMultipart handles POST /api/files/multipart/abort with a JSON body.
func (h *handlers) abortMultipart(ctx *router.Context) handler.Response {
	req, err := h.decodeMultipartRequest(ctx, false)
	if err != nil {
		return response.Error(err)
	}
	if err := h.svc.AbortMultipart(ctx, req.Key, req.UploadID); err != nil {
		return response.Error(err)
	}
	return response.OK()
}

// clientConfig handles GET /api/config.
func (h *handlers) clientConfig(ctx *router.Context) handler.Response {
	return response.WithCache(response.Success(map[string]string{
		"cdnBaseUrl": h.cfg.CDNBaseURL,
	}), downloadMaxAge)
}
