package resolver

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// tokens: отсортированные уникальные слова ключа.
type tokens []string

func tokenize(s string) tokens {
	f := strings.Fields(s)
	if len(f) == 0 {
		return nil
	}
	sort.Strings(f)
	out := f[:1]
	for _, w := range f[1:] {
		if w != out[len(out)-1] {
			out = append(out, w)
		}
	}
	return out
}

// split делит два отсортированных набора на общее и разности.
func split(a, b tokens) (sect, ab, ba []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			sect = append(sect, a[i])
			i++
			j++
		case a[i] < b[j]:
			ab = append(ab, a[i])
			i++
		default:
			ba = append(ba, b[j])
			j++
		}
	}
	ab = append(ab, a[i:]...)
	ba = append(ba, b[j:]...)
	return sect, ab, ba
}

// tokenSetRatio считает token-set similarity 0..100: общее+разность A против
// общее+разность B и общее против каждой из этих строк. need — минимальный
// интересный балл: дорогое расстояние не считается, если заведомо не дотянет.
func tokenSetRatio(a, b tokens, need float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sect, ab, ba := split(a, b)
	if len(sect) > 0 && (len(ab) == 0 || len(ba) == 0) {
		return 100
	}

	abStr := strings.Join(ab, " ")
	baStr := strings.Join(ba, " ")
	abLen := utf8.RuneCountInString(abStr)
	baLen := utf8.RuneCountInString(baStr)
	sectLen := utf8.RuneCountInString(strings.Join(sect, " "))

	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectAB := sectLen + sep + abLen
	sectBA := sectLen + sep + baLen

	best := 0.0
	if sectLen > 0 {
		// общее против общее+разность: расстояние равно длине добавки
		best = math.Max(ratio(sep+abLen, sectLen+sectAB), ratio(sep+baLen, sectLen+sectBA))
	}

	// общий префикс не влияет на расстояние, считаем его только по разностям
	lensum := sectAB + sectBA
	floor := math.Max(need, best)
	if ratio(abLen+baLen-2*commonRunes(abStr, baStr), lensum) < floor {
		return best
	}
	// без MaxCost: с ограничением библиотека отдаёт нижнюю оценку, а не расстояние
	dist := levenshtein.Distance(abStr, baStr, indelParams)
	return math.Max(best, ratio(dist, lensum))
}

var indelParams = levenshtein.NewParams().SubCost(2)

func ratio(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

// commonRunes: сколько букв совпадает без учёта порядка; даёт нижнюю
// оценку расстояния.
func commonRunes(a, b string) int {
	hist := make(map[rune]int, len(a))
	for _, r := range a {
		hist[r]++
	}
	common := 0
	for _, r := range b {
		if hist[r] > 0 {
			hist[r]--
			common++
		}
	}
	return common
}

// pool: набор поисковых ключей с инвертированным индексом по триграммам.
type pool struct {
	keys []string
	ids  []int
	toks []tokens
	inv  map[string][]int // trigram -> позиции ключей
}

func newPool() *pool {
	return &pool{inv: make(map[string][]int)}
}

func (p *pool) add(key string, id int) {
	pos := len(p.keys)
	p.keys = append(p.keys, key)
	p.ids = append(p.ids, id)
	p.toks = append(p.toks, tokenize(key))
	for g := range trigramSet(key) {
		p.inv[g] = append(p.inv[g], pos)
	}
}

func (p *pool) size() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// fuzzyMatch: лучший ключ пула с баллом >= cutoff. При равенстве баллов
// побеждает ключ, добавленный раньше.
type fuzzyMatch struct {
	key   string
	id    int
	score float64
}

// best ищет лучший ключ. Сначала ключи с общими триграммами (быстро
// поднимают планку), затем остальные с отсечением по верхней оценке.
func (p *pool) best(query string, cutoff float64) (fuzzyMatch, bool) {
	if p.size() == 0 {
		return fuzzyMatch{}, false
	}
	q := tokenize(query)
	if len(q) == 0 {
		return fuzzyMatch{}, false
	}

	bestPos, bestScore := -1, 0.0
	try := func(pos int) {
		need := cutoff
		if bestPos >= 0 {
			need = bestScore
		}
		s := tokenSetRatio(q, p.toks[pos], need)
		if s < cutoff {
			return
		}
		if bestPos < 0 || s > bestScore || (s == bestScore && pos < bestPos) {
			bestPos, bestScore = pos, s
		}
	}

	seen := make(map[int]struct{})
	for _, pos := range p.candidates(query) {
		seen[pos] = struct{}{}
		try(pos)
	}
	for pos := range p.keys {
		if _, ok := seen[pos]; ok {
			continue
		}
		try(pos)
	}

	if bestPos < 0 {
		return fuzzyMatch{}, false
	}
	return fuzzyMatch{key: p.keys[bestPos], id: p.ids[bestPos], score: bestScore}, true
}

// candidates: позиции ключей с общими триграммами, больше общих первыми.
func (p *pool) candidates(query string) []int {
	hits := make(map[int]int)
	for g := range trigramSet(query) {
		for _, pos := range p.inv[g] {
			hits[pos]++
		}
	}
	out := make([]int, 0, len(hits))
	for pos := range hits {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if hits[out[i]] != hits[out[j]] {
			return hits[out[i]] > hits[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}
