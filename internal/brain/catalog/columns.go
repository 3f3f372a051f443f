package catalog

import (
	"regexp"
	"sort"
	"strings"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormHeaderKey нормализует имя колонки: нижний регистр, ё→е, служебные символы → пробел.
func NormHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s) // NBSP/NNBSP
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ResolveColumn ищет реальный заголовок по желаемому имени.
// Варианты через "|": "xname|наименование". Сначала точное совпадение,
// затем нормализованное, затем заголовок, содержащий желаемое имя.
// taken: уже занятые другими полями заголовки.
func ResolveColumn(headers []string, want string, taken map[string]bool) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// 1) как есть
	for _, a := range alts {
		for _, h := range headers {
			if h == a && !taken[h] {
				return h
			}
		}
	}

	// 2) нормализованное
	norms := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := NormHeaderKey(a); n != "" {
			norms = append(norms, n)
		}
	}
	for _, n := range norms {
		for _, h := range headers {
			if NormHeaderKey(h) == n && !taken[h] {
				return h
			}
		}
	}

	// 3) составной заголовок: "наименование товара" содержит "наименование"
	best, bestScore := "", 0
	for _, h := range headers {
		if taken[h] {
			continue
		}
		nh := NormHeaderKey(h)
		for _, n := range norms {
			if strings.Contains(nh, n) && len(n) > bestScore {
				best, bestScore = h, len(n)
			}
		}
	}
	return best
}

// HeadersOf: заголовки записи в стабильном порядке.
func HeadersOf(rec map[string]string) []string {
	out := make([]string, 0, len(rec))
	for k := range rec {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// looksLikeHeader ловит повторную шапку внутри данных, когда два и больше значений
// совпадают с именами колонок.
func looksLikeHeader(rec map[string]string, m Mapping) bool {
	known := make(map[string]bool)
	for _, want := range []string{m.Name, m.Brand, m.Producer, m.Volume, m.Category, m.Subcategory} {
		for _, a := range strings.Split(want, "|") {
			if n := NormHeaderKey(a); n != "" {
				known[n] = true
			}
		}
	}
	cnt := 0
	for _, v := range rec {
		if known[NormHeaderKey(v)] {
			cnt++
		}
	}
	return cnt >= 2
}
