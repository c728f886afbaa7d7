package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// DefaultMaxMemory is the part of a multipart body kept in memory; the rest spills to temp files.
const DefaultMaxMemory int64 = 32 << 20

const (
	mediaTypeJSON      = "application/json"
	mediaTypeMultipart = "multipart/form-data"
)

var errNotJSON = errors.New("request body is not JSON")

// Context is the default per-request context. It delegates context.Context
// methods to the request's context and holds the parsed request body.
type Context struct {
	w         http.ResponseWriter
	r         *http.Request
	params    map[string]string
	maxMemory int64

	parsed   bool
	parseErr error
	jsonBody any
	rawJSON  []byte
	form     map[string]string
	files    map[string]*File
	query    url.Values

	tokenAuthorized bool
	authorized      bool

	decorators []handler.Decorator
}

// NewContext creates a Context for the request. Embed it to build custom contexts.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return newContext(w, r, DefaultMaxMemory)
}

func newContext(w http.ResponseWriter, r *http.Request, maxMemory int64) *Context {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	return &Context{
		w:         w,
		r:         r,
		maxMemory: maxMemory,
	}
}

// Deadline returns the time when work done on behalf of this context should be canceled.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the value associated with this context for key, or nil if no value is associated with key.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a request-scoped value visible through Value.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter for the given key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetParams replaces the route parameters. Called by the router after matching.
func (c *Context) SetParams(params map[string]string) {
	c.params = params
}

// Parse decodes the request body according to its Content-Type.
// JSON bodies are decoded into a generic value; multipart bodies are split into
// form values and files. Other content types leave the body untouched.
// Only the first call does any work; later calls return the same result.
func (c *Context) Parse() error {
	if c.parsed {
		return c.parseErr
	}
	c.parsed = true
	c.parseErr = c.parse()
	return c.parseErr
}

func (c *Context) parse() error {
	if c.r.Body == nil || c.r.Body == http.NoBody {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(c.r.Header.Get("Content-Type"))
	if err != nil {
		return nil
	}

	switch mediaType {
	case mediaTypeJSON:
		data, err := io.ReadAll(c.r.Body)
		if err != nil {
			return bodyError(err)
		}
		c.r.Body = io.NopCloser(bytes.NewReader(data))
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return &MalformedBodyError{Err: err}
		}
		c.jsonBody = v
		c.rawJSON = data

	case mediaTypeMultipart:
		if err := c.r.ParseMultipartForm(c.maxMemory); err != nil {
			return bodyError(err)
		}
		mf := c.r.MultipartForm
		c.form = make(map[string]string, len(mf.Value))
		for key, values := range mf.Value {
			if len(values) > 0 {
				c.form[key] = values[len(values)-1]
			}
		}
		c.files = make(map[string]*File, len(mf.File))
		for key, headers := range mf.File {
			if len(headers) > 0 {
				c.files[key] = newFile(headers[len(headers)-1])
			}
		}
	}

	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &BodyTooLargeError{Limit: tooLarge.Limit}
	}
	return &MalformedBodyError{Err: err}
}

// QueryParam returns the query parameter value. For repeated keys the last value wins.
func (c *Context) QueryParam(key string) (string, bool) {
	if c.query == nil {
		c.query = c.r.URL.Query()
	}
	values := c.query[key]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// RequiredQueryParam returns the query parameter or a *MissingParameterError
// when it is absent or empty.
func (c *Context) RequiredQueryParam(key string) (string, error) {
	v, ok := c.QueryParam(key)
	if !ok || v == "" {
		return "", &MissingParameterError{Source: "query parameter", Key: key}
	}
	return v, nil
}

// FormValue returns a text field of a multipart body.
func (c *Context) FormValue(key string) (string, bool) {
	_ = c.Parse()
	v, ok := c.form[key]
	return v, ok
}

// RequiredFormValue returns a text field or a *MissingParameterError.
func (c *Context) RequiredFormValue(key string) (string, error) {
	v, ok := c.FormValue(key)
	if !ok || v == "" {
		return "", &MissingParameterError{Source: "field", Key: key}
	}
	return v, nil
}

// File returns an uploaded file of a multipart body.
func (c *Context) File(key string) (*File, bool) {
	_ = c.Parse()
	f, ok := c.files[key]
	return f, ok
}

// RequiredFile returns an uploaded file or a *MissingParameterError.
func (c *Context) RequiredFile(key string) (*File, error) {
	f, ok := c.File(key)
	if !ok {
		return nil, &MissingParameterError{Source: "file", Key: key}
	}
	return f, nil
}

// JSON returns the decoded JSON body, nil when the body was not JSON.
func (c *Context) JSON() any {
	_ = c.Parse()
	return c.jsonBody
}

// DecodeJSON decodes the JSON body into v.
func (c *Context) DecodeJSON(v any) error {
	if err := c.Parse(); err != nil {
		return err
	}
	if c.rawJSON == nil {
		return &MalformedBodyError{Err: errNotJSON}
	}
	if err := json.Unmarshal(c.rawJSON, v); err != nil {
		return &MalformedBodyError{Err: err}
	}
	return nil
}

// SetTokenAuthorized marks the request as authenticated by API token.
func (c *Context) SetTokenAuthorized(ok bool) { c.tokenAuthorized = ok }

// TokenAuthorized reports whether API token auth passed.
func (c *Context) TokenAuthorized() bool { return c.tokenAuthorized }

// SetAuthorized marks the request as authenticated by the general auth layer.
func (c *Context) SetAuthorized(ok bool) { c.authorized = ok }

// Authorized reports whether general auth passed. Independent of TokenAuthorized.
func (c *Context) Authorized() bool { return c.authorized }

// AddDecorator registers a decorator applied to the final response of the request.
// Decorators added first end up outermost.
func (c *Context) AddDecorator(d handler.Decorator) {
	if d != nil {
		c.decorators = append(c.decorators, d)
	}
}

// Decorators returns the registered response decorators.
func (c *Context) Decorators() []handler.Decorator {
	return c.decorators
}
