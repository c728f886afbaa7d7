// Package logger builds *slog.Logger instances and provides attribute helpers
// with consistent keys.
//
// # Construction
//
// Development loggers write colourised text through tint at debug level with
// source locations; production loggers write JSON at info level with an RFC
// 3339 "ts" field. Both tag records with the service name and environment:
//
//	log := logger.New(logger.WithDevelopment("bucketdesk"))
//	log := logger.New(logger.WithProduction("bucketdesk"), logger.WithLevel(slog.LevelWarn))
//
// Later options override earlier ones, so a level or format read from
// configuration goes last:
//
//	log := logger.New(
//		logger.WithProduction("bucketdesk"),
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//		logger.WithOutput(os.Stderr),
//	)
//
// WithTextFormatter writes plain text without colours for files and pipes.
// WithAttr adds fixed attributes to every record. Without options New logs
// colourised text at info level to stdout.
//
// # Attributes
//
// Attribute helpers return an empty slog.Attr for nil or empty input, which
// slog drops:
//
//	log.Info("object deleted",
//		logger.Component("filemanager"),
//		logger.ObjectKey(key),
//		logger.Error(err), // omitted when err is nil
//	)
//
// The HTTP helpers (Method, Path, StatusCode, Elapsed, ClientIP) are what the
// router uses for its per-request lines, so file manager logs and router logs
// share field names. Group nests attributes; Key and Count cover one-off
// values.
//
// # Request context
//
// WithContextExtractors copies request-scoped values onto every record logged
// through the *Context methods:
//
//	log := logger.New(
//		logger.WithProduction("bucketdesk"),
//		logger.WithContextExtractors(middleware.RequestIDExtractor),
//	)
//	log.InfoContext(ctx, "upload started", logger.UploadID(id))
//	// {"ts":"...","level":"INFO","msg":"upload started","service":"bucketdesk","env":"production","upload_id":"...","request_id":"..."}
//
// An extractor returns false when the context carries nothing, so records
// logged outside a request are unaffected. Loggers derived with With and
// WithGroup keep their extractors.
package logger
