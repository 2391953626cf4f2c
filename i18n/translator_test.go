package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("not_validated", nil); msg == "not_validated" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("not_validated", nil); msg == "value was not validated" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	got := T("none_matched", map[string]string{"candidates": "int, string"})
	if got != "value matched none of [int, string]" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := T("required", nil); got != "required property missing: " {
		t.Fatalf("missing data should render empty, got %q", got)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("unknown codes should echo, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator_Custom(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if got := T("parse_error", nil); got != "X:parse_error" {
		t.Fatalf("custom translator not used: %q", got)
	}
}
