package cli

import (
	"errors"
	"fmt"
	"testing"

	"gremlin-hq/polyglot/pkg/config"
	"gremlin-hq/polyglot/pkg/gremlin/treedoc"
	"gremlin-hq/polyglot/pkg/strategy"
	"gremlin-hq/polyglot/pkg/translator"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("translator.targets", "unknown target \"cobol\"")

	expected := `config error in translator.targets: unknown target "cobol"`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("no such file")
	err := NewCommandError("translate", underlying)

	expected := "command translate failed: no such file"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlying) {
		t.Error("CommandError should unwrap to the underlying error")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"generic", errors.New("boom"), ExitFailure},
		{"config error", NewConfigError("f", "m"), ExitConfig},
		{"validation", NewCommandError("run", config.ValidationError{}), ExitConfig},
		{"document", fmt.Errorf("read: %w", &treedoc.Error{Message: "bad"}), ExitInput},
		{"partial", NewCommandError("batch", &PartialFailure{Failed: 1, Total: 3}), ExitTranslation},
		{"unsupported literal", &translator.UnsupportedLiteralError{Target: translator.Go, Form: "range"}, ExitTranslation},
		{"unregistered strategy", &strategy.UnregisteredStrategyError{Name: "Nope"}, ExitTranslation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPartialFailure(t *testing.T) {
	err := &PartialFailure{Failed: 2, Total: 5}
	if got, want := err.Error(), "2 of 5 documents failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
