// Package archive keeps a history of translations.
//
// Every translated document can be recorded as one Record per target. The
// Store interface has two implementations:
//
//   - SQLiteStore: a SQLite database opened with either the pure Go
//     modernc.org/sqlite driver ("sqlite") or the cgo
//     github.com/mattn/go-sqlite3 driver ("sqlite3")
//   - MemoryStore: an in-process map, used in tests
//
// Records carry a QueryHash, the SHA-256 of the canonical rendering of the
// query, so translations of the same query can be found across runs.
//
// # Retention
//
// Pruner deletes records older than RetentionDays and then the oldest
// records beyond MaxRecords. Scheduler runs it on a cron schedule:
//
//	pruner := archive.NewPruner(store, &archive.RetentionConfig{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *",
//	})
//	sched := archive.NewScheduler(pruner)
//	if err := sched.Start(ctx); err != nil {
//	    return err
//	}
//	defer sched.Stop()
package archive
