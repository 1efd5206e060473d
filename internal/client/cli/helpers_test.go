package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Валидный JSON проходит как есть, остальное становится строкой
func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, json.RawMessage(`42`), normalizeValue("42"))
	assert.Equal(t, json.RawMessage(`true`), normalizeValue("true"))
	assert.Equal(t, json.RawMessage(`{"a":1}`), normalizeValue(`{"a":1}`))
	assert.Equal(t, json.RawMessage(`"hello world"`), normalizeValue("hello world"))
	assert.Equal(t, json.RawMessage(`"=SUM(A1:A5)"`), normalizeValue("=SUM(A1:A5)"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<empty>", formatValue(nil))
	assert.Equal(t, "42", formatValue(json.RawMessage(`42`)))
	// Строки печатаются без кавычек
	assert.Equal(t, "hello", formatValue(json.RawMessage(`"hello"`)))
	assert.Equal(t, `{"a":1}`, formatValue(json.RawMessage(`{"a":1}`)))
}

func TestFormatMilli(t *testing.T) {
	assert.Equal(t, "-", formatMilli(0))

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := formatMilli(at.UnixMilli())
	assert.Contains(t, got, "2025-06-01")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "-", formatVersion(0))
	assert.Equal(t, "17", formatVersion(17))
}
