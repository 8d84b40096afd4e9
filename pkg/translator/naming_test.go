package translator

import (
	"context"
	"strings"
	"testing"
)

func TestNaming(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		name string
		in   string
		want string
	}{
		{pythonName, "pythonName", "hasLabel", "has_label"},
		{pythonName, "pythonName", "withSideEffect", "with_side_effect"},
		{pythonName, "pythonName", "mergeE", "merge_e"},
		{pythonName, "pythonName", "V", "V"},
		{pythonName, "pythonName", "OUT", "OUT"},
		{pythonName, "pythonName", "with", "with_"},
		{pythonName, "pythonName", "id", "id_"},
		{pythonName, "pythonName", "sum", "sum_"},
		{pythonName, "pythonName", "local", "local"},
		{jsStepName, "jsStepName", "with", "with_"},
		{jsStepName, "jsStepName", "from", "from_"},
		{jsStepName, "jsStepName", "and", "and"},
		{goName, "goName", "hasLabel", "HasLabel"},
		{goName, "goName", "V", "V"},
		{goName, "goName", "OUT", "Out"},
		{goName, "goName", "", ""},
		{simpleName, "simpleName", "a.b.SeedStrategy", "SeedStrategy"},
		{simpleName, "simpleName", "SeedStrategy", "SeedStrategy"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestRequote(t *testing.T) {
	tests := []struct {
		raw   string
		quote byte
		want  string
	}{
		{`'abc'`, '"', `"abc"`},
		{`"abc"`, '\'', `'abc'`},
		{`'a"b'`, '"', `"a\"b"`},
		{`"a'b"`, '\'', `'a\'b'`},
		{`'a\'b'`, '"', `"a\'b"`},
		{`'a\\'`, '"', `"a\\"`},
		{`''`, '"', `""`},
	}
	for _, tt := range tests {
		if got := requote(tt.raw, tt.quote, false); got != tt.want {
			t.Errorf("requote(%s, %c) = %s, want %s", tt.raw, tt.quote, got, tt.want)
		}
	}

	if got, want := goString("'a\\'b\nc'"), `"a'b\nc"`; got != want {
		t.Errorf("goString = %s, want %s", got, want)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"language", Canonical},
		{"canonical", Canonical},
		{"Anonymized", Anonymized},
		{"groovy", Groovy},
		{"JAVA", Java},
		{"js", JavaScript},
		{"javascript", JavaScript},
		{"py", Python},
		{" python ", Python},
		{"golang", Go},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if err != nil {
			t.Errorf("ParseTarget(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseTarget("cobol")
	if err == nil || !strings.Contains(err.Error(), "language, anonymized") {
		t.Errorf("ParseTarget(cobol) error = %v", err)
	}

	var tgt Target
	if err := tgt.UnmarshalText([]byte("python")); err != nil || tgt != Python {
		t.Errorf("UnmarshalText = %v, %v", tgt, err)
	}
	if _, err := Target(42).MarshalText(); err == nil {
		t.Error("MarshalText of invalid target should fail")
	}
	if got := JavaScript.DisplayName(); got != "Javascript" {
		t.Errorf("DisplayName = %q, want Javascript", got)
	}
}

func TestFamilies_Validate(t *testing.T) {
	if err := DefaultFamilies().Validate(); err != nil {
		t.Fatalf("default families invalid: %v", err)
	}

	bad := DefaultFamilies().Merge(map[string]string{
		"widget":    "w",
		ClassString: "9lives",
	})
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{`unknown class "widget"`, `family "9lives"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestFamilies_MergeIgnoresClassCase(t *testing.T) {
	merged := DefaultFamilies().Merge(map[string]string{
		"Integer": "number",
		"LONG":    "number",
	})
	if err := merged.Validate(); err != nil {
		t.Fatalf("mixed-case classes rejected: %v", err)
	}
	if merged[ClassInteger] != "number" || merged[ClassLong] != "number" {
		t.Errorf("merged = %v, want integer and long mapped to number", merged)
	}
	if _, ok := merged["Integer"]; ok {
		t.Error("merge kept the mixed-case key")
	}
	if err := (Families{"Short": "number"}).Validate(); err != nil {
		t.Errorf("Validate rejected mixed-case class: %v", err)
	}

	tree := g(step("V", num("1i"), num("1l")))
	res, err := Translate(context.Background(), tree, Anonymized, WithFamilies(merged))
	if err != nil {
		t.Fatal(err)
	}
	if res.Translated != "g.V(number0, number1)" {
		t.Errorf("Translated = %q", res.Translated)
	}
}

func TestAnonymizer_Placeholder(t *testing.T) {
	a := newAnonymizer(nil)
	seq := []struct {
		class, value, want string
	}{
		{ClassString, "a", "string0"},
		{ClassString, "b", "string1"},
		{ClassString, "a", "string0"},
		{ClassNumber, "a", "number0"},
		{ClassMap, "$m", "map0"},
	}
	for _, s := range seq {
		if got := a.placeholder(s.class, s.value); got != s.want {
			t.Errorf("placeholder(%s, %s) = %s, want %s", s.class, s.value, got, s.want)
		}
	}
	counts := a.counts()
	if counts["string"] != 2 || counts["number"] != 1 || counts["map"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
