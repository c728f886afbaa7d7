package response

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Attachment streams body as a file download and closes it afterwards.
// A negative size omits Content-Length. An empty contentType is detected from
// the file name, falling back to application/octet-stream.
func Attachment(body io.ReadCloser, filename, contentType string, size int64) handler.Response {
	filename = sanitizeFilename(path.Base(filename))

	return func(w http.ResponseWriter, r *http.Request) error {
		defer body.Close()

		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

		if contentType == "" {
			contentType = mime.TypeByExtension(path.Ext(filename))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)
		if size >= 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		}

		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return nil
		}
		_, err := io.Copy(w, body)
		return err
	}
}

// sanitizeFilename prevents header injection through newlines and quotes.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	return strings.ReplaceAll(name, "\"", "'")
}
