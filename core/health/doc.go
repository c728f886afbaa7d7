// Package health provides liveness and readiness handlers for the debug endpoints.
//
// Liveness always succeeds while the process serves requests. Readiness runs
// named dependency checks and answers 503 when any of them fails:
//
//	r.Get("/dev/health", health.Liveness[*router.Context])
//	r.Get("/dev/ready", health.Readiness[*router.Context](logger,
//		health.Check{Name: "bucket", Fn: svc.Ping},
//	))
//
// A check is any func(context.Context) error. Each one runs with CheckTimeout
// unless the request context expires sooner.
package health
