// Package static serves UI assets as a best-effort fallback in front of the
// route table.
//
// A Fallback looks up GET requests outside the reserved prefixes ("/api" and
// "/dev" by default) in an AssetStore. "/" maps to index.html and the leading
// slash is stripped, so stores see relative keys such as "css/app.css". Misses
// and store errors both yield a nil Response, letting routing continue.
// Content types come from a fixed extension table; unknown extensions are
// served as text/plain.
//
//	store, err := static.NewFSStore(os.DirFS("./public"))
//	if err != nil {
//		return err
//	}
//	fallback := static.NewFallback(store, static.WithMaxAge(time.Hour))
//
//	r := router.New[*router.Context](
//		router.WithStatic(static.Handler[*router.Context](fallback)),
//	)
//
// Assets kept in the bucket itself are served with NewBucketStore.
package static
