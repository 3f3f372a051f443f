package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Литраж словами. Порядок важен: длинные формы раньше вложенных в них коротких.
var wordVolumes = []struct {
	phrase string
	volume float64
}{
	{"ПОЛ ЛИТРА", 0.5},
	{"ПОЛЛИТРА", 0.5},
	{"ПОЛЛИТРОВ", 0.5},
	{"ПОЛУЛИТРА", 0.5},
	{"ПОЛУЛИТР", 0.5},
	{"ПОЛТОРА", 1.5},
	{"ЛИТР", 1.0},
	{"HALF-LITER", 0.5},
	{"HALF LITER", 0.5},
	{"HALF-LITRE", 0.5},
	{"HALF LITRE", 0.5},
	{"LITER", 1.0},
	{"LITRE", 1.0},
}

var (
	reNumTail  = regexp.MustCompile(`(\d+[.,]?\d*)\s*$`)
	reLitreDec = regexp.MustCompile(`(\d+[.,]\d+)\s*Л(?:$|[^А-ЯA-Z])`)
	reLitreInt = regexp.MustCompile(`(\d+)\s*Л(?:$|[^А-ЯA-Z])`)
	reMlInt    = regexp.MustCompile(`(\d{3,4})\s*МЛ`)
	reMlDec    = regexp.MustCompile(`(\d+[.,]\d+)\s*МЛ`)
	reBareDec  = regexp.MustCompile(`(\d+[.,]\d+)`)
)

// Диапазон, в котором голое десятичное число считаем литражом.
const (
	minBareVolume = 0.1
	maxBareVolume = 10.0
)

// ExtractVolume достаёт литраж (в литрах). Второе значение false — не найден.
//
// Порядок: литраж словами (число перед словом побеждает), "<число>Л",
// "<число>МЛ" (делим на 1000), голое десятичное число в [0.1, 10].
func ExtractVolume(text string) (float64, bool) {
	s := NormalizeCase(text)
	if s == "" {
		return 0, false
	}

	for _, wv := range wordVolumes {
		i := strings.Index(s, wv.phrase)
		if i < 0 {
			continue
		}
		prefix := strings.TrimSpace(s[:i])
		if m := reNumTail.FindStringSubmatch(prefix); m != nil {
			if v, ok := parseDecimal(m[1]); ok {
				return v, true
			}
		}
		return wv.volume, true
	}

	if m := reLitreDec.FindStringSubmatch(s); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return v, true
		}
	}
	if m := reLitreInt.FindStringSubmatch(s); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return v, true
		}
	}
	if m := reMlInt.FindStringSubmatch(s); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return v / 1000.0, true
		}
	}
	if m := reMlDec.FindStringSubmatch(s); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return v / 1000.0, true
		}
	}
	if m := reBareDec.FindStringSubmatch(s); m != nil {
		if v, ok := parseDecimal(m[1]); ok && v >= minBareVolume && v <= maxBareVolume {
			return v, true
		}
	}
	return 0, false
}

// 0,5 → 0.5; "2." → 2
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", "."), ".")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
