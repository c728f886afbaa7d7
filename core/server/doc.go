// Package server wraps http.Server with graceful shutdown, env-driven
// configuration and errgroup-friendly lifecycle management.
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Run serves until the context is canceled and then shuts down within the
// configured timeout. Setting SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE
// enables HTTPS.
package server
