package utils

import "strings"

// FirstNonEmpty は空白以外の文字を含む最初の値を返します。
// すべて空の場合は空文字を返します。
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// OrDefault は値が空の場合に fallback を返します。
func OrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
