// Package health provides the liveness, readiness and version endpoints
// served next to the metrics endpoint in watch mode.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("watcher", func(context.Context) error { ... })
//	checker.RegisterCheck("archive", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, nil)
//	    return err
//	})
//	health.Mount(mux, checker, health.NewVersionInfo(version, commit, date))
//
// /health always answers 200 while the process runs. /ready answers 503
// with the failing checks when any registered check fails or times out.
package health
