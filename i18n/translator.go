package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "candidates").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates may
// reference data entries as {name}; missing entries render as empty text.
type dictTranslator struct{ lang string }

var catalog = map[string]map[string]string{
	"en": {
		"invalid_type":           "invalid type: expected {expected}, got {got}",
		"invalid_format":         "invalid format: expected {expected}",
		"invalid_enum":           "value is not a member of {expected}",
		"required":               "required property missing: {key}",
		"unknown_key":            "unknown key: {key}",
		"discriminator_mismatch": "discriminator {key} must be {expected}",
		"none_matched":           "value matched none of [{candidates}]",
		"multiple_matched":       "value matched more than one of [{candidates}]",
		"structural_mismatch":    "expected {expected}, got {got}",
		"depth_exceeded":         "max depth {max} exceeded",
		"not_validated":          "value was not validated",
		"parse_error":            "parse error",
		"duplicate_key":          "duplicate key: {key}",
	},
	"ja": {
		"invalid_type":           "型が不正です: {expected} を期待しましたが {got} でした",
		"invalid_format":         "形式が不正です: {expected}",
		"invalid_enum":           "{expected} のメンバーではありません",
		"required":               "必須プロパティが不足しています: {key}",
		"unknown_key":            "未知のキーです: {key}",
		"discriminator_mismatch": "判別子 {key} は {expected} である必要があります",
		"none_matched":           "[{candidates}] のいずれにも一致しません",
		"multiple_matched":       "[{candidates}] の複数に一致しました",
		"structural_mismatch":    "{expected} を期待しましたが {got} でした",
		"depth_exceeded":         "最大深さ {max} を超えました",
		"not_validated":          "検証されていない値です",
		"parse_error":            "解析エラー",
		"duplicate_key":          "キーが重複しています: {key}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalog[t.lang][code]
	if !ok {
		return code
	}
	return render(tmpl, data)
}

func render(tmpl string, data map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:i])
		b.WriteString(data[tmpl[i+1:i+j]])
		tmpl = tmpl[i+j+1:]
	}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
