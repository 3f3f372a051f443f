package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Шум в наименованиях: упаковка, общие слова, организационные формы.
var noiseWords = []string{
	"НАПИТОК", "НАПИТ", "НАП", "ЭНЕРГЕТИЧЕСКИЙ", "ЭНЕРГЕТИК",
	"БЕЗАЛКОГОЛЬНЫЙ", "БЕЗАЛК", "Б/А", "Б.А.",
	"СИЛЬНОГАЗ", "СИЛГАЗ", "СИЛ/ГАЗ", "СИЛЬНО/ГАЗ",
	"НЕГАЗ", "ГАЗИРОВАННЫЙ", "ГАЗИРОВАНН", "ГАЗИР",
	"ТОНИЗИРУЮЩИЙ", "ТОНИЗИР", "ТОНИЗ",
	"КОКТЕЙЛЬ", "СОКОСОДЕРЖАЩИЙ", "СОКОСОД", "С/СОД",
	"С МЯК", "ОСВ", "ОСВЕТЛ", "ОСВЕТЛЕННЫЙ",
	"ПЛ/БУТ", "ПЭТ", "PET", "Ж/Б", "СТ/Б", "CAN",
	"С КЛ", "С КЛЮЧ", "ПЛАСТИК", "СТЕКЛ", "ЖЕСТЯН", "БАНК",
	"ОАО", "ООО", "ЗАО", "АО", "ТД", "ПАО",
	"ТМ", "ТОВ",
}

var (
	noiseLongestFirst = byRuneLenDesc(noiseWords)
	noiseSet          = toSet(noiseWords)
)

var (
	reTrailCode = regexp.MustCompile(`:\d+\s*$`)
	reParens    = regexp.MustCompile(`\([^)]*\)`)
	reParenBody = regexp.MustCompile(`\(([^)]+)\)`)
	reLongCode  = regexp.MustCompile(`\d{5,}`)
	reTrailFrac = regexp.MustCompile(`[.,]\d+\s*$`)
	reNonWord   = regexp.MustCompile(`[^А-ЯA-Z0-9\s]`)
	// "0,5Л", "500 МЛ" отдельным токеном
	reVolumeSub = regexp.MustCompile(`\d+[.,]?\d*\s*(?:МЛ|Л)(?:$|[^\p{L}\p{N}_])`)
)

// NormalizeCase: верхний регистр, схлопнутые пробелы, Ё→Е.
func NormalizeCase(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToUpper(norm.NFC.String(text))
	s = strings.ReplaceAll(s, "Ё", "Е")
	return collapseSpaces(s)
}

// StripFragments убирает скобки и хвостовой код ":12".
func StripFragments(s string) string {
	s = reParens.ReplaceAllString(s, "")
	s = reTrailCode.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// StripPunct: пунктуация → пробел, пробелы схлопнуты.
func StripPunct(s string) string {
	return collapseSpaces(reNonWord.ReplaceAllString(s, " "))
}

// ParenContent: текст в первых скобках (обычно производитель).
func ParenContent(text string) string {
	m := reParenBody.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Clean убирает весь шум, оставляя значимые слова.
func Clean(text string) string {
	s := NormalizeCase(text)
	if s == "" {
		return ""
	}
	s = reTrailCode.ReplaceAllString(s, "")
	s = reParens.ReplaceAllString(s, "")
	s = reLongCode.ReplaceAllString(s, "")
	s = reTrailFrac.ReplaceAllString(s, "")
	s = reVolumeSub.ReplaceAllString(s, " ")
	for _, w := range noiseLongestFirst {
		s = ReplaceWord(s, w, "")
	}
	return StripPunct(s)
}

// SearchKey: очищенный текст вместе со своей транслитерацией,
// чтобы запрос в другой письменности совпал с сохранённым алиасом.
func SearchKey(text string) string {
	c := Clean(text)
	if c == "" {
		return ""
	}
	return collapseSpaces(c + " " + ToLatin(c))
}

// ExtractBrandCandidates: первые 1, 2, 3 слова после удаления шума
// и их транслитерации. Только для авторазбора.
func ExtractBrandCandidates(text string) []string {
	s := StripFragments(NormalizeCase(text))

	var words []string
	for _, w := range strings.Fields(s) {
		if _, ok := noiseSet[w]; ok {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}

	var out []string
	for n := 1; n <= 3 && n <= len(words); n++ {
		out = append(out, strings.Join(words[:n], " "))
	}
	native := len(out)
	for _, c := range out[:native] {
		if en := ToLatin(c); en != c {
			out = append(out, en)
		}
	}
	return out
}

// HasCyrillic: есть ли в строке заглавная кириллица А-Я.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if r >= 'А' && r <= 'Я' {
			return true
		}
	}
	return false
}

// IsWordRune: буква, цифра или подчёркивание.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ReplaceWord заменяет вхождения w, стоящие отдельным словом: соседние
// символы не буквы и не цифры. RE2-шный \b понимает только ASCII.
func ReplaceWord(s, w, repl string) string {
	if w == "" || !strings.Contains(s, w) {
		return s
	}
	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(s[pos:], w)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(w)
		if wordBounded(s, start, end) {
			b.WriteString(s[pos:start])
			b.WriteString(repl)
		} else {
			_, size := utf8.DecodeRuneInString(s[start:])
			end = start + size
			b.WriteString(s[pos:end])
		}
		pos = end
	}
	b.WriteString(s[pos:])
	return b.String()
}

// ContainsWord: есть ли w отдельным словом.
func ContainsWord(s, w string) bool {
	if w == "" {
		return false
	}
	pos := 0
	for {
		i := strings.Index(s[pos:], w)
		if i < 0 {
			return false
		}
		start := pos + i
		if wordBounded(s, start, start+len(w)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
}

func wordBounded(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if IsWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if IsWordRune(r) {
			return false
		}
	}
	return true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func byRuneLenDesc(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}

func toSet(src []string) map[string]struct{} {
	m := make(map[string]struct{}, len(src))
	for _, s := range src {
		m[s] = struct{}{}
	}
	return m
}
