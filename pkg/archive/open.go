package archive

import "time"

// DriverMemory selects MemoryStore in Open.
const DriverMemory = "memory"

// Options selects and configures a store for Open.
type Options struct {
	Driver      string // DriverModernc, DriverCGO or DriverMemory
	Path        string
	WALMode     bool
	BusyTimeout time.Duration
}

// Open returns the store selected by opts.Driver.
func Open(opts Options) (Store, error) {
	if opts.Driver == DriverMemory {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(&SQLiteConfig{
		Driver:      opts.Driver,
		Path:        opts.Path,
		WALMode:     opts.WALMode,
		BusyTimeout: opts.BusyTimeout,
	})
}
