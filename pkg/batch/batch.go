// Package batch translates many tree documents concurrently.
//
// Run fans the jobs out over a bounded errgroup. Each job renders its query
// for every requested target with its own translation state, so jobs share
// nothing but the strategy registry, which is read-only once sealed.
//
// By default a failing job is recorded in its Result and the others keep
// going. With FailFast the first failure cancels the jobs that have not
// started yet and Run returns that failure.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/translator"
)

// DefaultExtensions are the file extensions Collect picks up.
var DefaultExtensions = []string{".yaml", ".yml", ".json"}

// Job is one query to translate.
type Job struct {
	Name   string
	Source string
	Query  ast.Node
}

// Result is the outcome of one job.
type Result struct {
	Job          string                    `json:"job"`
	Translations []*translator.Translation `json:"translations,omitempty"`
	Error        string                    `json:"error,omitempty"`
	Duration     time.Duration             `json:"duration"`

	// Err is the failure behind Error.
	Err error `json:"-"`
}

// Failed reports whether the job failed.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Options configures Run.
type Options struct {
	// Targets to render every job for. Must not be empty.
	Targets []translator.Target

	// Concurrency bounds the jobs in flight. Zero means GOMAXPROCS.
	Concurrency int

	// FailFast stops scheduling jobs after the first failure.
	FailFast bool

	// Translate options applied to every translation.
	Translate []translator.Option

	Logger *slog.Logger

	// OnResult, if set, is called as each job finishes. Calls may come from
	// several goroutines at once.
	OnResult func(Result)
}

// Run translates every job and returns the results in job order.
//
// The returned error is non-nil only when ctx is cancelled or, with
// FailFast, when a job fails. Results for jobs that never ran are left
// zero apart from their name.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	if len(opts.Targets) == 0 {
		return nil, errors.New("batch: no targets")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "batch")
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	for i := range jobs {
		results[i].Job = jobs[i].Name
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := runJob(gctx, jobs[i], opts)
			results[i] = res
			if opts.OnResult != nil {
				opts.OnResult(res)
			}
			if res.Err != nil {
				logger.WarnContext(gctx, "job failed", "job", res.Job, "error", res.Err)
				if opts.FailFast {
					return fmt.Errorf("job %s: %w", res.Job, res.Err)
				}
				return nil
			}
			logger.DebugContext(gctx, "job translated", "job", res.Job, "duration", res.Duration)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

func runJob(ctx context.Context, job Job, opts Options) Result {
	start := time.Now()
	res := Result{Job: job.Name}

	topts := opts.Translate
	if job.Source != "" {
		topts = append(append([]translator.Option(nil), topts...), translator.WithSourceName(job.Source))
	}
	res.Translations, res.Err = translator.TranslateAll(ctx, job.Query, opts.Targets, topts...)
	if res.Err != nil {
		res.Error = res.Err.Error()
	}
	res.Duration = time.Since(start)
	return res
}

// FromDocuments turns decoded documents into jobs. Document sources are left
// to the tree, so a caller-level source option still wins over them.
func FromDocuments(docs []*treedoc.Document) []Job {
	jobs := make([]Job, len(docs))
	for i, d := range docs {
		jobs[i] = Job{Name: d.Name(), Query: d.Query}
	}
	return jobs
}

// Collect decodes every file under dir whose extension is in extensions
// (DefaultExtensions when empty) and returns one job per document, ordered by
// path.
func Collect(dir string, extensions []string, dec *treedoc.Decoder) ([]Job, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if dec == nil {
		dec = treedoc.NewDecoder()
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !HasExtension(path, extensions) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	var jobs []Job
	for _, p := range paths {
		docs, err := dec.DecodeFile(p)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, FromDocuments(docs)...)
	}
	return jobs, nil
}

// HasExtension reports whether path ends in one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
