// Package slug нормализует название заведения в человекочитаемый handle.
package slug

import (
	"strings"
	"unicode"
)

// Make переводит произвольное название в slug: латиница и цифры в нижнем регистре,
// серии прочих символов схлопываются в один дефис. Пустой результат означает,
// что название не содержит допустимых символов и slug надо задать явно.
func Make(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Valid проверяет, что handle состоит только из латиницы, цифр и одиночных дефисов.
func Valid(s string) bool {
	if s == "" || s != Make(s) {
		return false
	}
	return true
}
