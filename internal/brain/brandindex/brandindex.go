package brandindex

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"brain-service/internal/brain/model"
	"brain-service/internal/brain/normalize"
)

// Уверенность по ступеням FindBrand.
const (
	ConfAbbreviation  = 95.0
	ConfBrandName     = 100.0
	ConfSynonym       = 95.0
	ConfNgram         = 90.0
	ConfNgramTranslit = 88.0
	ConfNgramLatin    = 86.0
)

// Сколько наименований одного бренда просматриваем при добыче синонимов.
const minedNamesPerBrand = 50

// Аббревиатуры в обеих письменностях. Проверяются раньше всего.
var manualAbbreviations = [][2]string{
	{"КК", "COCA-COLA"}, {"CC", "COCA-COLA"},
	{"ФБ", "FRESH BAR"}, {"FB", "FRESH BAR"},
	{"ИЛ", "ИЛЬИНСКИЕ ЛИМОНАДЫ"},
	{"ЛЭ", "LIT ENERGY"}, {"LE", "LIT ENERGY"},
	{"ТЭ", "TORNADO"}, {"TE", "TORNADO"},
	{"ЕОН", "E-ON"}, {"EON", "E-ON"}, {"ИОН", "E-ON"},
	{"Е-ОН", "E-ON"}, {"Е ОН", "E-ON"},
	{"БМ", "BLACK MONSTER"}, {"BM", "BLACK MONSTER"},
	{"РБ", "RED BULL"}, {"RB", "RED BULL"},
	{"ДМ", "DRIVE ME"}, {"DM", "DRIVE ME"},
	{"ГД", "G-DRIVE"}, {"GD", "G-DRIVE"},
}

// Слова, которые не могут быть частью бренда при добыче из наименований.
var miningNoise = toSet([]string{
	"НАПИТОК", "НАПИТ", "НАП", "ЭНЕРГ", "ЭНЕРГЕТ", "ЭНЕРГЕТИК",
	"ЭНЕРГЕТИЧЕСКИЙ", "БЕЗАЛК", "Б/А", "БЕЗАЛКОГОЛЬНЫЙ",
	"ТОНИЗИР", "ТОНИЗ", "ТОНИЗИРУЮЩИЙ",
	"КОКТЕЙЛЬ", "ЛИМОНАД", "КВАС", "ВОДА", "НЕКТАР", "СОК",
	"МОРС", "НАПИТКИ", "ГАЗИРОВАННЫЙ", "ГАЗИРОВАНН", "ГАЗИР",
	"ГАЗИРОВАННАЯ", "СИЛЬНОГАЗ", "НЕГАЗ",
	"МИНЕРАЛЬНАЯ", "МИНЕРАЛ", "ПИТЬЕВАЯ",
	"СЛАДКИЙ", "СЛАДК",
	"КОЛА", "COLA", "МОХИТО", "MOJITO",
	"ДЮШЕС", "ТАРХУН", "БАЙКАЛ",
	"С/СОД", "СОКОСОД", "СОКОСОДЕРЖАЩИЙ",
	"ФРУКТОВЫЙ", "ФРУКТ", "ЯГОДНЫЙ",
	"ДЕТСКИЙ", "ДЕТСКАЯ", "ДЕТСКОЕ",
	"ИЗ", "НА", "С", "В", "И", "ДЛЯ", "ПО", "ОТ",
	"МУЛЬТИПАК", "НАБОР",
	"ПЭТ", "PET", "CAN", "ПЛ/БУТ", "Ж/Б", "ЖБ", "СТ/Б",
	"СТЕКЛ", "ПЛАСТИК", "БАНКА", "БУТЫЛКА",
	"БА", "Б", "А", "ГАЗ", "СИЛГАЗ",
	"ВКС", "КЛ", "СИЛ", "ЗАВ", "ПР",
	"ОСНВ", "ОСВ", "ОСВЕТЛ", "МЯК",
	"ФИЛЬТ", "ПАСТ", "ЖИВОЙ",
	"PREMIUM", "CLASSIC", "ORIGINAL", "ZERO", "ЗЕРО",
	"LIGHT", "ЛАЙТ", "SUGAR", "FREE", "MAX",
	"НОВЫЙ", "НОВАЯ", "НОВОЕ", "SPECIAL",
	"МЛ", "Л", "КГ", "ШТ",
})

var reNonBrand = regexp.MustCompile(`[^А-ЯA-Z0-9\s]`)

// Index: синонимы и аббревиатуры брендов. После построения только читается.
type Index struct {
	brands        []string // длинные первыми
	synonyms      *dict
	abbreviations *dict

	// отсортированы длинные первыми при равной длине в порядке вставки
	synByLen  []string
	abbrByLen []string
}

// dict: map с запоминанием порядка первой вставки.
type dict struct {
	m     map[string]string
	order []string
}

func newDict() *dict { return &dict{m: make(map[string]string)} }

// set перезаписывает значение, позиция ключа сохраняется.
func (d *dict) set(k, v string) {
	if _, ok := d.m[k]; !ok {
		d.order = append(d.order, k)
	}
	d.m[k] = v
}

// setIfAbsent: первый записавший выигрывает.
func (d *dict) setIfAbsent(k, v string) {
	if _, ok := d.m[k]; ok {
		return
	}
	d.set(k, v)
}

func (d *dict) get(k string) (string, bool) {
	v, ok := d.m[k]
	return v, ok
}

func (d *dict) byLenDesc() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	sort.SliceStable(out, func(i, j int) bool {
		return runeLen(out[i]) > runeLen(out[j])
	})
	return out
}

// Build строит индекс по справочнику. extra — дополнительные аббревиатуры,
// ручную таблицу они не перекрывают.
func Build(rows []model.CatalogRow, extra map[string]string) *Index {
	idx := newIndex(extra)

	// бренды и наименования в порядке первого появления
	var order []string
	names := make(map[string][]string)
	for _, r := range rows {
		b := normalize.NormalizeCase(r.Brand)
		if b == "" || b == model.GenericBrand {
			continue
		}
		if _, ok := names[b]; !ok {
			order = append(order, b)
		}
		names[b] = append(names[b], normalize.NormalizeCase(r.Name))
	}

	idx.setBrands(order)
	idx.mergePhrases()

	for _, b := range order {
		xnames := names[b]
		if len(xnames) > minedNamesPerBrand {
			xnames = xnames[:minedNamesPerBrand]
		}
		for _, cand := range mineStarts(b, xnames) {
			idx.synonyms.setIfAbsent(cand, b)
			if en := normalize.ToLatin(cand); en != cand {
				idx.synonyms.setIfAbsent(en, b)
			}
		}
	}

	idx.finish()
	return idx
}

// BuildFromBrands строит индекс только по списку брендов, без добычи
// синонимов из наименований. Так индекс восстанавливается из сохранённых эталонов.
func BuildFromBrands(brands []string, extra map[string]string) *Index {
	idx := newIndex(extra)

	var order []string
	seen := make(map[string]struct{})
	for _, b := range brands {
		b = normalize.NormalizeCase(b)
		if b == "" || b == model.GenericBrand {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		order = append(order, b)
	}

	idx.setBrands(order)
	idx.mergePhrases()
	idx.finish()
	return idx
}

func newIndex(extra map[string]string) *Index {
	idx := &Index{synonyms: newDict(), abbreviations: newDict()}
	for _, a := range manualAbbreviations {
		idx.abbreviations.set(a[0], a[1])
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		abbr := normalize.NormalizeCase(k)
		brand := normalize.NormalizeCase(extra[k])
		if abbr == "" || brand == "" {
			continue
		}
		idx.abbreviations.setIfAbsent(abbr, brand)
	}
	return idx
}

// setBrands регистрирует сам бренд и его механические варианты.
func (idx *Index) setBrands(order []string) {
	idx.brands = make([]string, len(order))
	copy(idx.brands, order)
	sort.SliceStable(idx.brands, func(i, j int) bool {
		return runeLen(idx.brands[i]) > runeLen(idx.brands[j])
	})

	for _, b := range idx.brands {
		idx.synonyms.set(b, b)

		if en := normalize.ToLatin(b); en != b {
			idx.synonyms.set(en, b)
		}
		if cleaned := strings.TrimSpace(reNonBrand.ReplaceAllString(b, "")); cleaned != "" && cleaned != b {
			idx.synonyms.set(cleaned, b)
		}
		noDash := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(b, "-", " "), "  ", " "))
		if noDash != b {
			idx.synonyms.set(noDash, b)
		}
		squashed := strings.ReplaceAll(strings.ReplaceAll(b, "-", ""), " ", "")
		if squashed != b {
			idx.synonyms.set(squashed, b)
		}
	}
}

// mergePhrases: многословные названия брендов в кириллице.
func (idx *Index) mergePhrases() {
	for _, p := range normalize.Phrases() {
		idx.synonyms.set(p[0], strings.ToUpper(p[1]))
	}
}

func (idx *Index) finish() {
	idx.synByLen = idx.synonyms.byLenDesc()
	idx.abbrByLen = idx.abbreviations.byLenDesc()
}

// mineStarts: начала наименований (1..слов_в_бренде+1 слов) без шума,
// содержащие кириллицу. Возвращаются отсортированными.
func mineStarts(brand string, xnames []string) []string {
	brandWords := len(strings.Fields(brand))
	found := make(map[string]struct{})

	for _, xn := range xnames {
		var words []string
		for _, w := range strings.Fields(normalize.StripFragments(xn)) {
			if _, ok := miningNoise[w]; ok {
				continue
			}
			if r, _ := utf8.DecodeRuneInString(w); unicode.IsDigit(r) {
				continue
			}
			words = append(words, w)
		}

		for n := 1; n <= brandWords+1 && n <= len(words); n++ {
			cand := strings.Join(words[:n], " ")
			if cand == brand {
				continue
			}
			minLen := 3
			if n == 1 {
				minLen = 4
			}
			if normalize.HasCyrillic(cand) && runeLen(cand) >= minLen {
				found[cand] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for c := range found {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FindBrand ищет бренд в тексте. Пустая строка и 0 — бренд не найден.
func (idx *Index) FindBrand(text string) (string, float64) {
	s := normalize.NormalizeCase(text)
	sClean := normalize.StripFragments(s)
	sNoPunct := normalize.StripPunct(sClean)
	sEn := normalize.ToLatin(sNoPunct)
	words := strings.Fields(sNoPunct)

	// 1) Аббревиатуры: короткие, поэтому раньше всего
	sWithDash := strings.Join(strings.Fields(sClean), " ")
	for _, abbr := range idx.abbrByLen {
		if strings.HasPrefix(sWithDash, abbr) || strings.HasPrefix(sNoPunct, abbr) {
			v, _ := idx.abbreviations.get(abbr)
			return v, ConfAbbreviation
		}
	}
	if len(words) > 0 {
		if v, ok := idx.abbreviations.get(words[0]); ok {
			return v, ConfAbbreviation
		}
		if v, ok := idx.abbreviations.get(normalize.ToLatin(words[0])); ok {
			return v, ConfAbbreviation
		}
		if len(words) >= 2 {
			if v, ok := idx.abbreviations.get(words[0] + " " + words[1]); ok {
				return v, ConfAbbreviation
			}
		}
	}

	// 2) Полное название бренда
	for _, b := range idx.brands {
		if runeLen(b) < 2 {
			continue
		}
		if strings.Contains(sClean, b) || strings.Contains(s, b) {
			return b, ConfBrandName
		}
	}

	// 3) Синонимы. Короткие только целым словом
	for _, syn := range idx.synByLen {
		n := runeLen(syn)
		if n < 3 {
			continue
		}
		var hit bool
		if n <= 5 {
			hit = containsToken(sNoPunct, syn) || containsToken(sEn, syn) || containsToken(sClean, syn)
		} else {
			hit = strings.Contains(sNoPunct, syn) || strings.Contains(sEn, syn) || strings.Contains(sClean, syn)
		}
		if hit {
			v, _ := idx.synonyms.get(syn)
			return v, ConfSynonym
		}
	}

	// 4) N-граммы по исходным словам
	if b, conf := idx.ngrams(words, true); b != "" {
		return b, conf
	}

	// 5) N-граммы по транслитерации
	if b, _ := idx.ngrams(strings.Fields(sEn), false); b != "" {
		return b, ConfNgramLatin
	}
	return "", 0
}

// ngrams перебирает 3, 2, 1 слово подряд.
func (idx *Index) ngrams(words []string, withTranslit bool) (string, float64) {
	for n := min(3, len(words)); n > 0; n-- {
		for start := 0; start+n <= len(words); start++ {
			cand := strings.Join(words[start:start+n], " ")
			if runeLen(cand) < 3 {
				continue
			}
			if v, ok := idx.synonyms.get(cand); ok {
				return v, ConfNgram
			}
			if !withTranslit {
				continue
			}
			if en := normalize.ToLatin(cand); en != cand {
				if v, ok := idx.synonyms.get(en); ok {
					return v, ConfNgramTranslit
				}
			}
		}
	}
	return "", 0
}

// HasBrand: известен ли бренд индексу.
func (idx *Index) HasBrand(brand string) bool {
	for _, b := range idx.brands {
		if b == brand {
			return true
		}
	}
	return false
}

// Brands: известные бренды, длинные первыми.
func (idx *Index) Brands() []string {
	out := make([]string, len(idx.brands))
	copy(out, idx.brands)
	return out
}

// Stats: число брендов, синонимов и аббревиатур.
func (idx *Index) Stats() (brands, synonyms, abbreviations int) {
	return len(idx.brands), len(idx.synonyms.m), len(idx.abbreviations.m)
}

// containsToken: w окружено пробелами или краями строки.
func containsToken(s, w string) bool {
	pos := 0
	for {
		i := strings.Index(s[pos:], w)
		if i < 0 {
			return false
		}
		start := pos + i
		end := start + len(w)
		leftOK := start == 0 || isSpace(s[:start], true)
		rightOK := end == len(s) || isSpace(s[end:], false)
		if leftOK && rightOK {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
}

func isSpace(s string, last bool) bool {
	var r rune
	if last {
		r, _ = utf8.DecodeLastRuneInString(s)
	} else {
		r, _ = utf8.DecodeRuneInString(s)
	}
	return unicode.IsSpace(r)
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func toSet(src []string) map[string]struct{} {
	m := make(map[string]struct{}, len(src))
	for _, s := range src {
		m[s] = struct{}{}
	}
	return m
}
