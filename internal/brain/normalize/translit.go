package normalize

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Direction: направление транслитерации.
type Direction int

const (
	ToLatinDir    Direction = iota // кириллица → латиница
	ToCyrillicDir                  // латиница → кириллица
)

type pair struct{ from, to string }

// Слова и слоги, которые пишут то кириллицей, то латиницей.
// Порядок важен: при равной длине побеждает запись выше.
var wordTranslit = []pair{
	{"ЭНЕРДЖИ", "ENERGY"}, {"ЭНЕРГИ", "ENERGY"}, {"ЭНЕРГ", "ENERG"},
	{"ЭНЕРГЕТ", "ENERGET"}, {"ЭНЕРГЕТИК", "ENERGETIC"},
	{"ТОРНАДО", "TORNADO"}, {"МОНСТЕР", "MONSTER"}, {"МОНСТР", "MONSTER"},
	{"СПРАЙТ", "SPRITE"}, {"ФАНТА", "FANTA"}, {"ПЕПСИ", "PEPSI"},
	{"КОКА", "COCA"}, {"КОЛА", "COLA"}, {"БЕРН", "BURN"},
	{"ФЛЕШ", "FLASH"}, {"ГОРИЛЛА", "GORILLA"}, {"ГЕНЕЗИС", "GENESIS"},
	{"ДРАЙВ", "DRIVE"}, {"РОКЕТ", "ROCKET"}, {"РОКСТАР", "ROCKSTAR"},
	{"БУЛЛИТ", "BULLIT"}, {"БИЗОН", "BIZON"}, {"БУЛЛ", "BULL"},
	{"РЕД", "RED"}, {"БЛЭК", "BLACK"}, {"ЧЕРН", "BLACK"},
	{"ШТОРМ", "STORM"}, {"АКТИВ", "ACTIVE"}, {"МАКС", "MAX"},
	{"СКИЛЛ", "SKILL"}, {"БАТЛ", "BATTLE"}, {"БАТТЛ", "BATTLE"},
	{"ПАНЧ", "PUNCH"}, {"КРАШ", "CRUSH"}, {"РАШ", "RUSH"},
	{"КОФЕ", "COFFEE"}, {"КОФФ", "COFF"}, {"ВИТАМИН", "VITAMIN"},
	{"ЦИТРУС", "CITRUS"}, {"ТРОПИК", "TROPIC"}, {"ТРОПИЧ", "TROPIC"},
	{"ИМБИР", "GINGER"}, {"МИНДАЛ", "ALMOND"},
	{"ЛИТ", "LIT"}, {"ЛИТР", "LITR"},
	{"ФРЕШ", "FRESH"}, {"БАР", "BAR"},
	{"МОХИТО", "MOJITO"}, {"ПИНАКОЛАД", "PINA COLAD"},
	{"ЛИМОНАД", "LIMONAD"}, {"ДЮШЕС", "DUSHES"}, {"ТАРХУН", "TARKHUN"},
	{"БАЙКАЛ", "BAIKAL"}, {"ЛАЙМ", "LIME"}, {"ЛАЙМОН", "LAIMON"},
	{"АПЕЛЬСИН", "ORANGE"}, {"ОРАНЖ", "ORANGE"},
	{"ЛИМОН", "LEMON"}, {"ВИШНЯ", "CHERRY"}, {"КЛУБНИК", "STRAWBERRY"},
	{"ИЛЬИНСК", "ILIINSK"},
	{"ЯГУАР", "JAGUAR"},
	{"ЧУПА", "CHUPA"}, {"ЧУПС", "CHUPS"},
	{"ФИЗРУК", "FIZRUK"},
	{"КРЫМ", "KRYM"},
	{"АШКУДИ", "HQD"}, {"АШКДИ", "HQD"},
	{"ЕОН", "E-ON"}, {"Е-ОН", "E-ON"}, {"И-ОН", "E-ON"},
	{"ГЛАДИО", "GLADIO"}, {"ГРУТ", "GROOT"},
	{"БАЗЗ", "BUZZ"}, {"ФРУТИНГ", "FRUITING"},
	{"ФЛЭШ", "FLASH"}, {"АП", "UP"},
	{"МИ", "ME"},
	{"БУСТ", "BOOST"},
	{"ГОРИЛЛ", "GORILL"}, {"ГЕНЕЗ", "GENEZ"},
	{"БИТТЕР", "BITTER"}, {"БЛЕК", "BLACK"},
}

// Целые названия брендов из нескольких слов.
var phraseTranslit = []pair{
	{"ТОРНАДО ЭНЕРДЖИ", "TORNADO ENERGY"},
	{"ТОРНАДО ЭНЕРГ", "TORNADO ENERGY"},
	{"ТОРНАДО", "TORNADO"},
	{"МОНСТЕР ЭНЕРДЖИ", "MONSTER ENERGY"},
	{"МОНСТЕР ЭНЕРГ", "MONSTER ENERGY"},
	{"МОНСТЕР", "MONSTER"},
	{"КОКА КОЛА", "COCA-COLA"},
	{"КОКА-КОЛА", "COCA-COLA"},
	{"ЛИТ ЭНЕРДЖИ", "LIT ENERGY"},
	{"ЛИТ ЭНЕРГ", "LIT ENERGY"},
	{"ФРЕШ БАР", "FRESH BAR"},
	{"ФЛЕШ АП", "FLASH UP"},
	{"ФЛЭШ АП", "FLASH UP"},
	{"ДРАЙВ МИ", "DRIVE ME"},
	{"РЕД БУЛЛ", "RED BULL"},
	{"РЕД БУЛ", "RED BULL"},
	{"БЛЭК МОНСТЕР", "BLACK MONSTER"},
	{"БЕРН", "BURN"},
	{"СПРАЙТ", "SPRITE"},
	{"ФАНТА", "FANTA"},
	{"ПЕПСИ", "PEPSI"},
	{"ГОРИЛЛА", "GORILLA"},
	{"ФИЗРУК", "FIZRUK"},
	{"ЯГУАР", "JAGUAR"},
	{"ГЕНЕЗИС", "GENESIS"},
	{"Е-ОН", "E-ON"},
	{"ЕОН", "E-ON"},
	{"И-ОН", "E-ON"},
}

// Отсортированные словари (длинные первыми) для обоих направлений.
var (
	wordsToLatin      = longestFirst(wordTranslit)
	wordsToCyrillic   = longestFirst(reversed(wordTranslit))
	phrasesToLatin    = longestFirst(phraseTranslit)
	phrasesToCyrillic = longestFirst(reversed(phraseTranslit))
)

// reversed строит обратный словарь механически: если обратный ключ уже занят,
// запись пропускается, поэтому направления не противоречат друг другу.
func reversed(src []pair) []pair {
	seen := make(map[string]struct{}, len(src))
	out := make([]pair, 0, len(src))
	for _, p := range src {
		if _, ok := seen[p.to]; ok {
			continue
		}
		seen[p.to] = struct{}{}
		out = append(out, pair{from: p.to, to: p.from})
	}
	return out
}

func longestFirst(src []pair) []pair {
	out := make([]pair, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].from) > utf8.RuneCountInString(out[j].from)
	})
	return out
}

// Transliterate делает пословную замену по словарям: сначала фразы целиком,
// затем внутри каждого слова подстроки (длинные первыми).
func Transliterate(text string, dir Direction) string {
	phrases, words := phrasesToLatin, wordsToLatin
	if dir == ToCyrillicDir {
		phrases, words = phrasesToCyrillic, wordsToCyrillic
	}

	s := text
	for _, p := range phrases {
		if strings.Contains(s, p.from) {
			s = strings.ReplaceAll(s, p.from, p.to)
		}
	}

	fields := strings.Fields(s)
	for i, w := range fields {
		for _, p := range words {
			if strings.Contains(w, p.from) {
				w = strings.ReplaceAll(w, p.from, p.to)
			}
		}
		fields[i] = w
	}
	return strings.Join(fields, " ")
}

// ToLatin: кириллица → латиница.
func ToLatin(text string) string { return Transliterate(text, ToLatinDir) }

// ToCyrillic: латиница → кириллица.
func ToCyrillic(text string) string { return Transliterate(text, ToCyrillicDir) }

// Phrases возвращает словарь многословных брендов (кириллица → латиница) в исходном порядке.
func Phrases() [][2]string {
	out := make([][2]string, len(phraseTranslit))
	for i, p := range phraseTranslit {
		out[i] = [2]string{p.from, p.to}
	}
	return out
}
