package middleware_test

import (
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/response"
	"github.com/dmitrymomot/bucketdesk/core/router"
)

type ctx = *router.Context

func newRouter(mws ...handler.Middleware[ctx]) router.Router[ctx] {
	r := router.New[ctx](router.WithErrorHandler[ctx](response.JSONErrorHandler[ctx]))
	r.Use(mws...)
	return r
}

func okHandler(c ctx) handler.Response {
	return response.String("ok")
}

func statusHandler(status int) handler.HandlerFunc[ctx] {
	return func(c ctx) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(status)
			return nil
		}
	}
}
