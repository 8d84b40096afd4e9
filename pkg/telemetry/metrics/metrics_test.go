package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/strategy/builtin"
	"gremlin-hq/polyglot/pkg/translator"
)

func testCollector() *Collector {
	return NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, prometheus.NewRegistry())
}

func TestCollector_ObserveTranslation(t *testing.T) {
	c := testCollector()

	c.ObserveTranslation("python", time.Millisecond, 2, nil)
	c.ObserveTranslation("python", time.Millisecond, 0, nil)
	c.ObserveTranslation("java", time.Millisecond, 0, &translator.UnsupportedLiteralError{})

	if got := testutil.ToFloat64(c.translation.translationsTotal.WithLabelValues("python", OutcomeSuccess)); got != 2 {
		t.Errorf("python success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.translation.translationsTotal.WithLabelValues("java", OutcomeUnsupportedLiteral)); got != 1 {
		t.Errorf("java unsupported_literal = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.translation.duration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
	if got := testutil.CollectAndCount(c.translation.parameters); got != 1 {
		t.Errorf("parameters series = %d, want 1 (failures are not observed)", got)
	}
}

func TestCollector_ObservePlaceholders(t *testing.T) {
	c := testCollector()
	c.ObservePlaceholders("string", 3)
	c.ObservePlaceholders("string", 1)
	c.ObservePlaceholders("number", 0)

	if got := testutil.ToFloat64(c.translation.placeholdersTotal.WithLabelValues("string")); got != 4 {
		t.Errorf("string placeholders = %v, want 4", got)
	}
	if got := testutil.CollectAndCount(c.translation.placeholdersTotal); got != 1 {
		t.Errorf("placeholder series = %d, want 1", got)
	}
}

func TestCollector_ObserveConstruction(t *testing.T) {
	c := testCollector()
	c.ObserveConstruction("SeedStrategy", strategy.ConfigFactory, nil)
	c.ObserveConstruction("SeedStrategy", strategy.ConfigFactory, strategy.ErrStrategyConstruction)

	if got := testutil.ToFloat64(c.strategy.constructionsTotal.WithLabelValues("SeedStrategy", "config_factory", OutcomeSuccess)); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.strategy.constructionsTotal.WithLabelValues("SeedStrategy", "config_factory", OutcomeConstructionFailed)); got != 1 {
		t.Errorf("construction_failed = %v, want 1", got)
	}
}

func TestCollector_StrategyCardinality(t *testing.T) {
	c := testCollector()
	c.strategyNames = NewCardinalityLimiter(2)
	for i := 0; i < 5; i++ {
		c.ObserveConstruction(fmt.Sprintf("Typo%dStrategy", i), strategy.Singleton, strategy.ErrUnregisteredStrategy)
	}

	if got := testutil.CollectAndCount(c.strategy.constructionsTotal); got != 3 {
		t.Errorf("series = %d, want 3", got)
	}
	if got := testutil.ToFloat64(c.strategy.constructionsTotal.WithLabelValues(otherStrategy, "singleton", OutcomeUnregisteredStrategy)); got != 3 {
		t.Errorf("other = %v, want 3", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{}, nil)
	c.ObserveTranslation("python", time.Millisecond, 1, nil)
	c.ObserveConstruction("SeedStrategy", strategy.ConfigFactory, nil)
	c.ObserveDocument("batch", time.Millisecond, nil)

	if got := testutil.CollectAndCount(c.translation.translationsTotal); got != 0 {
		t.Errorf("series = %d, want 0 while disabled", got)
	}
	if c.config.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", c.config.Namespace, config.DefaultMetricsNamespace)
	}
}

func TestOutcomes(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{&translator.TranslationError{Err: &translator.UnsupportedLiteralError{}}, OutcomeUnsupportedLiteral},
		{&translator.TranslationError{Err: &translator.InvalidLiteralError{Err: errors.New("bad")}}, OutcomeInvalidLiteral},
		{&translator.TranslationError{Err: &strategy.UnregisteredStrategyError{Name: "X"}}, OutcomeUnregisteredStrategy},
		{errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		if got := TranslationOutcome(tt.err); got != tt.want {
			t.Errorf("TranslationOutcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if got := ConstructionOutcome(&strategy.UnregisteredStrategyError{Name: "X"}); got != OutcomeUnregisteredStrategy {
		t.Errorf("ConstructionOutcome() = %q, want %q", got, OutcomeUnregisteredStrategy)
	}
}

func TestCollector_WiredIntoTranslator(t *testing.T) {
	c := testCollector()
	q := ast.Source("g", ast.Call("V", ast.Int("1")), ast.Call("has", ast.Str("'name'"), ast.Var("x")))

	if _, err := translator.Translate(context.Background(), q, translator.Python, translator.WithObserver(c)); err != nil {
		t.Fatal(err)
	}
	if _, err := translator.Translate(context.Background(), q, translator.Anonymized, translator.WithObserver(c)); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(c.translation.translationsTotal.WithLabelValues("python", OutcomeSuccess)); got != 1 {
		t.Errorf("python success = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.translation.placeholdersTotal); got == 0 {
		t.Error("no placeholder series recorded for the anonymized translation")
	}
}

func TestCollector_WiredIntoResolver(t *testing.T) {
	c := testCollector()
	r := strategy.NewResolver(builtin.Default(), strategy.WithObserver(c))

	if _, err := r.Construct(context.Background(), strategy.Spec{Name: "ReadOnlyStrategy"}); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(c.strategy.constructionsTotal.WithLabelValues("ReadOnlyStrategy", "singleton", OutcomeSuccess)); got != 1 {
		t.Errorf("ReadOnlyStrategy success = %v, want 1", got)
	}
}

func TestCollector_Documents(t *testing.T) {
	c := testCollector()
	c.ObserveDocument("batch", time.Millisecond, nil)
	c.ObserveDocument("batch", time.Millisecond, errors.New("x"))
	c.ObserveRun("batch", time.Unix(1700000000, 0))

	if got := testutil.ToFloat64(c.documents.documentsTotal.WithLabelValues("batch", OutcomeError)); got != 1 {
		t.Errorf("batch error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.documents.lastRun.WithLabelValues("batch")); got != 1700000000 {
		t.Errorf("last run = %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := testCollector()
	c.ObserveTranslation("go", time.Millisecond, 0, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `test_translations_total{outcome="success",target="go"} 1`) {
		t.Errorf("body missing translations_total:\n%s", rec.Body.String())
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := testCollector()
	c.ObservePlaceholders("string", 2)

	path := filepath.Join(t.TempDir(), "polyglot.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `test_anonymized_placeholders_total{family="string"} 2`) {
		t.Errorf("textfile = %s", b)
	}

	if err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("WriteTextfile() into a missing directory returned nil")
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)
	if !cl.Allow("a") || !cl.Allow("b") || !cl.Allow("a") {
		t.Error("Allow() rejected a value within the limit")
	}
	if cl.Allow("c") {
		t.Error("Allow() accepted a value past the limit")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}
