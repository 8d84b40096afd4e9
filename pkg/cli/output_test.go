package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type sample struct {
	Target     string `json:"target" yaml:"target"`
	Translated string `json:"translated" yaml:"translated"`
}

func (s sample) String() string { return s.Target + ": " + s.Translated }

type sampleTable []sample

func (t sampleTable) Header() []string { return []string{"target", "translated"} }

func (t sampleTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, s := range t {
		rows[i] = []string{s.Target, s.Translated}
	}
	return rows
}

func TestParseOutputFormat(t *testing.T) {
	for _, in := range []string{"text", "json", "yaml", "csv"} {
		if got, err := ParseOutputFormat(in); err != nil || string(got) != in {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", in, got, err)
		}
	}
	if got, _ := ParseOutputFormat(""); got != FormatText {
		t.Errorf("empty format = %q, want text", got)
	}
	if _, err := ParseOutputFormat("junit"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatText).FormatTo(&buf, sample{"python", "g.V()"}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "python: g.V()\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSONFormatter(t *testing.T) {
	f := NewFormatter(FormatJSON)

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, sample{"java", `g.V().has("x")`}); err != nil {
		t.Fatal(err)
	}
	var decoded sample
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Translated != `g.V().has("x")` {
		t.Errorf("translated = %q", decoded.Translated)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}

	b, err := (&JSONFormatter{}).Format([]int{1, 2})
	if err != nil || string(b) != "[1,2]" {
		t.Errorf("Format = %q, %v", b, err)
	}
}

func TestYAMLFormatter(t *testing.T) {
	b, err := NewFormatter(FormatYAML).Format(sample{"go", "g.V()"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "target: go\ntranslated: g.V()\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCSVFormatter(t *testing.T) {
	data := sampleTable{{"python", "g.V('a,b')"}, {"groovy", "g.V()"}}

	b, err := NewFormatter(FormatCSV).Format(data)
	if err != nil {
		t.Fatal(err)
	}
	want := "target,translated\npython,\"g.V('a,b')\"\ngroovy,g.V()\n"
	if string(b) != want {
		t.Errorf("got %q, want %q", b, want)
	}

	if _, err := NewFormatter(FormatCSV).Format(sample{}); err == nil {
		t.Error("expected error for non-table data")
	}
}
