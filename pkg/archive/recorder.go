package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/translator"
)

// Recorder turns translation outcomes into archive records.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: slog.Default().With("component", "archive.recorder"),
		now:    time.Now,
	}
}

// Outcome is what the recorder needs to know about one translated document.
type Outcome struct {
	Document     string
	File         string
	Query        ast.Node
	Translations []*translator.Translation

	// Err is the failure that stopped the document, if any. It is recorded
	// against FailedTarget.
	Err          error
	FailedTarget translator.Target

	Duration time.Duration
}

// Record saves one record per translation in o, plus one for the failure
// if there is one. It returns the IDs of the saved records.
func (r *Recorder) Record(ctx context.Context, o Outcome) ([]string, error) {
	hash := QueryHash(o.Query)
	created := r.now().UTC()

	var per time.Duration
	if n := len(o.Translations); n > 0 {
		per = o.Duration / time.Duration(n)
	}

	var ids []string
	save := func(rec *Record) error {
		rec.ID = uuid.New().String()
		rec.Document = o.Document
		rec.File = o.File
		rec.QueryHash = hash
		rec.CreatedAt = created
		if err := r.store.Save(ctx, rec); err != nil {
			return err
		}
		ids = append(ids, rec.ID)
		return nil
	}

	for _, t := range o.Translations {
		err := save(&Record{
			Target:     t.Target.String(),
			Translated: t.Translated,
			Parameters: t.Parameters,
			Duration:   per,
		})
		if err != nil {
			return ids, err
		}
	}
	if o.Err != nil {
		if err := save(&Record{Target: o.FailedTarget.String(), Error: o.Err.Error(), Duration: per}); err != nil {
			return ids, err
		}
	}

	r.logger.Debug("translations archived",
		"document", o.Document,
		"records", len(ids),
		"query_hash", hash,
	)
	return ids, nil
}

// QueryHash returns the hex SHA-256 of the canonical rendering of q, or ""
// when q cannot be rendered.
func QueryHash(q ast.Node) string {
	if q == nil {
		return ""
	}
	text, err := translator.Render(q, translator.Canonical)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
