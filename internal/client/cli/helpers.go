package cli

import (
	"encoding/json"
	"strconv"
	"time"
)

// normalizeValue превращает аргумент командной строки в JSON-значение:
// валидный JSON передается как есть, все остальное становится строкой.
func normalizeValue(arg string) json.RawMessage {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg)
	}
	quoted, _ := json.Marshal(arg)
	return quoted
}

// formatValue печатает JSON-значение без лишних кавычек вокруг строк
func formatValue(raw json.RawMessage) string {
	if raw == nil {
		return "<empty>"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// formatMilli печатает unix-milli timestamp в читаемом виде
func formatMilli(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}

// formatVersion печатает версию либо прочерк для нулевой
func formatVersion(v int64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatInt(v, 10)
}
