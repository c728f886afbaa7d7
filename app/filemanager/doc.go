// Package filemanager is the HTTP file manager for an S3-compatible bucket.
//
// NewApp validates the Config, connects the bucket (or takes one through
// WithBucket), and registers the middleware pipeline and the routes:
//
//	GET    /api/files/list?prefix=          one folder level
//	GET    /api/files/get?key=              download
//	POST   /api/files/upload                multipart "file" plus optional "path"
//	DELETE /api/files/delete?key=
//	GET    /api/files/folders               top-level folders
//	GET    /api/files/search?query=&prefix= case-insensitive key search
//	POST   /api/files/multipart/init?key=
//	POST   /api/files/multipart/upload?key=&uploadId=&partNumber=
//	POST   /api/files/multipart/complete    {key, uploadId, parts}
//	POST   /api/files/multipart/abort       {key, uploadId}
//	GET    /api/config                      client settings
//	GET    /dev/health, /dev/ready, /dev/routes, /dev/metrics
//
// /api requires the API token, /dev the debug header, and everything outside
// /api the admin Basic credentials when ADMIN_BASIC_AUTH is set. Other GET
// requests are served from the asset store holding the browser UI.
package filemanager
