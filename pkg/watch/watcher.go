// Package watch re-translates tree documents when they change on disk.
//
// A Watcher follows files and directories with fsnotify. Changes to a file
// are debounced per path, then the file is decoded and every document in it
// is translated to each configured target. Each translation is written next
// to the source (or under OutputDir) as <document>.<target>.txt.
//
// Files are processed one at a time by a single worker, so two changes to
// the same file never race on its outputs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gremlin-hq/polyglot/pkg/batch"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/translator"
)

// Config configures a Watcher.
type Config struct {
	// Paths are the files or directories to watch. Directories are watched
	// recursively.
	Paths []string

	// Targets to render every document for.
	Targets []translator.Target

	// Debounce is the quiet period after the last change to a file before it
	// is translated.
	// Default: 200ms
	Debounce time.Duration

	// Extensions of the files to translate.
	// Default: batch.DefaultExtensions
	Extensions []string

	// OutputDir receives the translations. Empty writes next to each source
	// file.
	OutputDir string

	// SkipHidden ignores files and directories starting with a dot.
	SkipHidden bool

	// Initial translates every matching file once when Watch starts.
	Initial bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Targets:    []translator.Target{translator.Python, translator.JavaScript, translator.Java},
		Debounce:   200 * time.Millisecond,
		Extensions: batch.DefaultExtensions,
		SkipHidden: true,
	}
}

// Result describes one processed file.
type Result struct {
	Path      string
	Documents int

	// Written lists the output files produced.
	Written []string

	// Failures holds one error per document that did not translate for
	// every target.
	Failures []error

	// Err is set when the file could not be decoded or an output could not
	// be written.
	Err error
}

// Handler is called after each processed file with the decoded documents
// and their translations, in document order. docs is nil when decoding
// failed.
type Handler func(ctx context.Context, res Result, docs []*treedoc.Document, outcomes []DocumentOutcome)

// DocumentOutcome is the translation result for one document.
type DocumentOutcome struct {
	Translations []*translator.Translation
	Err          error
	Duration     time.Duration
}

// Watcher translates tree documents as they change.
type Watcher struct {
	config    *Config
	watcher   *fsnotify.Watcher
	debounce  *Debouncer
	decoder   *treedoc.Decoder
	translate []translator.Option
	handler   Handler
	logger    *slog.Logger

	queue chan string
	quit  chan struct{}

	// files are watched individually; dirs are watched with all their
	// matching files.
	files map[string]bool
	dirs  map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithTranslateOptions sets the options passed to every translation.
func WithTranslateOptions(opts ...translator.Option) Option {
	return func(w *Watcher) { w.translate = opts }
}

// WithHandler sets a callback run after each processed file.
func WithHandler(h Handler) Option {
	return func(w *Watcher) { w.handler = h }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithDecoder sets the tree document decoder.
func WithDecoder(d *treedoc.Decoder) Option {
	return func(w *Watcher) { w.decoder = d }
}

// New creates a watcher. Call Watch to start it.
func New(config *Config, opts ...Option) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if len(config.Targets) == 0 {
		return nil, errors.New("no targets")
	}
	if config.Debounce <= 0 {
		config.Debounce = 200 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = batch.DefaultExtensions
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		config:   config,
		watcher:  fsw,
		debounce: NewDebouncer(config.Debounce),
		decoder:  treedoc.NewDecoder(),
		logger:   slog.Default().With("component", "watch"),
		queue:    make(chan string, 64),
		quit:     make(chan struct{}),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch blocks, translating changed files until ctx is cancelled or Stop is
// called. A Watcher can be run only once.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	select {
	case <-w.doneCh:
		w.mu.Unlock()
		return errors.New("watcher already stopped")
	default:
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	var initial []string
	for _, p := range w.config.Paths {
		files, err := w.addPath(p)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		initial = append(initial, files...)
	}

	w.logger.Info("watcher started",
		"paths", w.config.Paths,
		"targets", len(w.config.Targets),
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		w.work(ctx)
	}()
	defer func() {
		close(w.quit)
		workers.Wait()
	}()

	if w.config.Initial {
		for _, f := range initial {
			w.enqueue(ctx, f)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Stop stops a running watcher and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	w.mu.Unlock()
	<-w.doneCh
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if w.hidden(event.Name) || !w.dirs[filepath.Dir(filepath.Clean(event.Name))] {
				return
			}
			files, err := w.addPath(event.Name)
			if err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			// Files may land before the directory watch is in place.
			for _, f := range files {
				w.debounce.Trigger(f, func() { w.enqueue(ctx, f) })
			}
			return
		}
	}
	if !w.relevant(event) {
		return
	}
	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
	path := event.Name
	w.debounce.Trigger(path, func() { w.enqueue(ctx, path) })
}

func (w *Watcher) enqueue(ctx context.Context, path string) {
	select {
	case w.queue <- path:
	case <-w.quit:
	case <-ctx.Done():
	}
}

func (w *Watcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.quit:
			return
		case path := <-w.queue:
			if _, err := os.Stat(path); err != nil {
				// Removed or renamed away before the debounce fired.
				continue
			}
			w.Process(ctx, path)
		}
	}
}

// Process translates the file at path once and writes its outputs.
func (w *Watcher) Process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	docs, err := w.decoder.DecodeFile(path)
	if err != nil {
		res.Err = err
		w.logger.Warn("decode failed", "path", path, "error", err)
		w.notify(ctx, res, nil, nil)
		return res
	}
	res.Documents = len(docs)

	outDir := w.config.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		res.Err = fmt.Errorf("failed to create output directory: %w", err)
		w.notify(ctx, res, docs, nil)
		return res
	}

	outcomes := make([]DocumentOutcome, len(docs))
	for i, doc := range docs {
		start := time.Now()
		translations, err := translator.TranslateAll(ctx, doc.Query, w.config.Targets, w.translate...)
		outcomes[i] = DocumentOutcome{Translations: translations, Err: err, Duration: time.Since(start)}
		if err != nil {
			res.Failures = append(res.Failures, fmt.Errorf("%s: %w", doc.Name(), err))
		}
		for _, t := range translations {
			out := filepath.Join(outDir, OutputName(doc.Name(), t.Target))
			if err := writeFile(out, t.Translated+"\n"); err != nil {
				res.Err = err
				w.notify(ctx, res, docs, outcomes)
				return res
			}
			res.Written = append(res.Written, out)
		}
	}

	w.logger.Info("translated",
		"path", path,
		"documents", res.Documents,
		"written", len(res.Written),
		"failures", len(res.Failures),
	)
	for _, f := range res.Failures {
		w.logger.Warn("translation failed", "path", path, "error", f)
	}
	w.notify(ctx, res, docs, outcomes)
	return res
}

func (w *Watcher) notify(ctx context.Context, res Result, docs []*treedoc.Document, outcomes []DocumentOutcome) {
	if w.handler != nil {
		w.handler(ctx, res, docs, outcomes)
	}
}

// OutputName is the file name a translation of document for target is
// written to.
func OutputName(document string, target translator.Target) string {
	return document + "." + target.String() + ".txt"
}

// writeFile replaces path atomically so readers never see a partial file.
func writeFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// addPath watches path and returns the matching files already under it.
func (w *Watcher) addPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if err := w.watcher.Add(filepath.Dir(path)); err != nil {
			return nil, err
		}
		w.files[filepath.Clean(path)] = true
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != path && w.hidden(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", p, err)
			}
			w.dirs[filepath.Clean(p)] = true
			w.logger.Debug("watching directory", "path", p)
			return nil
		}
		if batch.HasExtension(p, w.config.Extensions) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.hidden(event.Name) {
		return false
	}
	path := filepath.Clean(event.Name)
	if !w.files[path] && !w.dirs[filepath.Dir(path)] {
		return false
	}
	return batch.HasExtension(path, w.config.Extensions)
}

func (w *Watcher) hidden(path string) bool {
	return w.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}
