// Package response builds handler.Response values: plain bytes, JSON, the API
// envelope, file downloads and the JSON error handler.
//
// A Response is a function the router calls once the pipeline has decided what
// to send. The constructors here only capture their arguments; nothing is
// written until the router renders the result.
//
// # Envelope
//
// API endpoints answer with an Envelope:
//
//	return response.Success(map[string]string{"key": key})  // {"success":true,"data":{"key":"..."}}
//	return response.OK()                                     // {"success":true}
//	return response.Failure("File not found", http.StatusNotFound)
//
// Data and Error are omitted when empty, so a client checks success first and
// then reads one of the two.
//
// # Plain content
//
//	return response.String("pong")
//	return response.Bytes(body, "text/html; charset=utf-8")
//	return response.JSONWithStatus(map[string]string{"status": "ok"}, http.StatusAccepted)
//
// # Downloads
//
// Attachment streams a body as a download and closes it when done, including
// on HEAD requests where nothing is copied:
//
//	obj, err := bucket.Get(ctx, key)
//	if err != nil {
//		return response.Error(err)
//	}
//	return response.Attachment(obj.Body, key, obj.ContentType, obj.Size)
//
// Only the last path element of the name is used. Line breaks are dropped and
// double quotes become single quotes before it goes into
// Content-Disposition. An empty content type is guessed from the extension. A
// negative size omits Content-Length.
//
// # Decorators
//
// WithHeaders, WithCookie and WithCache wrap a Response and set headers before
// it renders:
//
//	resp := response.Bytes(asset, static.ContentType(name))
//	return response.WithCache(resp, time.Hour) // Cache-Control: public, max-age=3600
//
// A zero or negative max age turns caching off with no-cache, no-store.
//
// # Errors
//
// Handlers that fail return response.Error(err) and let the router's error
// handler decide the status:
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//
// JSONErrorHandler maps errors as follows:
//
//   - an HTTPError is used as is
//   - an error with StatusCode() gets that status
//   - anything else becomes a 500
//
// Client errors keep their message. Server errors never leak their cause; the
// body carries PublicMessage() when the error provides one, otherwise the
// status text. Errors exposing Header() contribute response headers such as
// WWW-Authenticate. Nothing is written once the response has started.
//
// The predefined HTTPError values cover the statuses the file manager uses and
// take a message with WithMessage:
//
//	return response.Error(response.ErrNotFound.WithMessage("File not found"))
//	return response.Error(response.ErrServiceUnavailable)
package response
