package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)
	spaceRepl  = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", ".")
)

// ParseFloatRU парсит "1 234,50", "0,5л", "(12,5)" (минус в скобках), NBSP/NNBSP.
// Второе значение false — числа нет.
func ParseFloatRU(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = spaceRepl.Replace(s)
	// оставить только цифры, точку и минус
	s = rxKeepNums.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// FormatFloat печатает без лишних нулей: 0.5, 1, 0.449.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
