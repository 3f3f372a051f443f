package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCase(t *testing.T) {
	assert.Equal(t, "", NormalizeCase(""))
	assert.Equal(t, "", NormalizeCase("   "))
	assert.Equal(t, "ЕЖИК В ТУМАНЕ", NormalizeCase("  ёжик   в\tтумане "))
	assert.Equal(t, "TORNADO ENERGY", NormalizeCase("tornado energy"))
}

func TestNormalizeCase_DecomposedYo(t *testing.T) {
	// Е + U+0308 складывается в Ё, затем в Е
	assert.Equal(t, "ЕЛКА", NormalizeCase("е\u0308лка"))
}

func TestTransliterate_ToLatin(t *testing.T) {
	assert.Equal(t, "TORNADO ENERGY", ToLatin("ТОРНАДО ЭНЕРДЖИ"))
	assert.Equal(t, "COCA-COLA", ToLatin("КОКА КОЛА"))
	assert.Equal(t, "FRESH BAR MOJITO", ToLatin("ФРЕШ БАР МОХИТО"))
	assert.Equal(t, "LIMONAD DUSHES", ToLatin("ЛИМОНАД ДЮШЕС"))
}

func TestTransliterate_LongestSubstringFirst(t *testing.T) {
	// ЭНЕРГЕТИК длиннее ЭНЕРГЕТ и ЭНЕРГ
	assert.Equal(t, "ENERGETIC", ToLatin("ЭНЕРГЕТИК"))
	assert.Equal(t, "ENERGETICИ", ToLatin("ЭНЕРГЕТИКИ"))
}

func TestTransliterate_ToCyrillic(t *testing.T) {
	assert.Equal(t, "ТОРНАДО ЭНЕРДЖИ", ToCyrillic("TORNADO ENERGY"))
	assert.Equal(t, "МОНСТЕР", ToCyrillic("MONSTER"))
}

func TestTransliterate_ReverseSkipsCollisions(t *testing.T) {
	// ENERGY ← ЭНЕРДЖИ и ЭНЕРГИ: обратно побеждает первая запись
	assert.Equal(t, "ЭНЕРДЖИ", Transliterate("ENERGY", ToCyrillicDir))
	seen := map[string]bool{}
	for _, p := range wordsToCyrillic {
		assert.False(t, seen[p.from], "duplicate reverse key %s", p.from)
		seen[p.from] = true
	}
}

func TestTransliterate_Empty(t *testing.T) {
	assert.Equal(t, "", ToLatin(""))
	assert.Equal(t, "", ToCyrillic(""))
}

func TestExtractVolume(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0,5Л", 0.5},
		{"500 МЛ", 0.5},
		{"1.5 л", 1.5},
		{"half liter", 0.5},
		{"2 half-liters", 2.0},
		{"вода ПОЛТОРА литра", 1.5},
		{"КВАС 2 ЛИТРА", 2.0},
		{"ЛИМОНАД ПОЛЛИТРА", 0.5},
		{"TORNADO ENERGY Напиток энергет айс 0,5л(Росинка):12", 0.5},
		{"MONSTER 449 мл ж/б", 0.449},
		{"ЭНЕРГЕТИК 1Л ПЭТ", 1.0},
		{"Сок яблоко 0.33 шт", 0.33},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, ok := ExtractVolume(tc.in)
			require.True(t, ok)
			assert.InDelta(t, tc.want, v, 1e-9)
		})
	}
}

func TestExtractVolume_None(t *testing.T) {
	for _, in := range []string{"", "12345", "КОД 00871400", "ЯБЛОКО 12.5", "ФАНТА"} {
		_, ok := ExtractVolume(in)
		assert.False(t, ok, in)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "TORNADO ENERGY ЭНЕРГЕТ АЙС",
		Clean("TORNADO ENERGY Напиток энергет айс 0,5л(Росинка):12"))
	assert.Equal(t, "FRESH BAR МОХИТО",
		Clean("FRESH BAR Мохито Напит б/а Сильногаз 0,48л пл/бут(Росинка):12"))
	assert.Equal(t, "COCA COLA",
		Clean("COCA-COLA Напиток газированный 1,5л пл/бут(Кока-Кола):9"))
}

func TestClean_NoiseOnlyAsWholeWord(t *testing.T) {
	// НАП внутри НАПОЛЕОН не трогаем
	assert.Equal(t, "НАПОЛЕОН", Clean("НАПОЛЕОН НАП"))
	assert.Equal(t, "БАНКИР", Clean("БАНКИР"))
}

func TestClean_StripsLongCodes(t *testing.T) {
	assert.Equal(t, "ЧЕРНОГОЛОВКА", Clean("ЧЕРНОГОЛОВКА 00871400"))
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "", SearchKey(""))
	assert.Equal(t, "ТОРНАДО АЙС TORNADO АЙС", SearchKey("Торнадо айс 0,5л"))
	// латиница транслитерацией не меняется, ключ просто удваивается
	assert.Equal(t, "BURN BURN", SearchKey("BURN 0,5Л Ж/Б"))
}

func TestSearchKey_CrossScriptCollision(t *testing.T) {
	ru := SearchKey("Фанта")
	assert.Equal(t, "ФАНТА FANTA", ru)
	assert.Contains(t, SearchKey("Fanta"), "FANTA")
}

func TestExtractBrandCandidates(t *testing.T) {
	got := ExtractBrandCandidates("МЕГАЭНЕРДЖИ Напиток тониз 0,45л ж/б(ООО Сила):24")
	require.NotEmpty(t, got)
	assert.Equal(t, "МЕГАЭНЕРДЖИ", got[0])
	assert.Equal(t, "МЕГАЭНЕРДЖИ 0,45Л", got[1])
	assert.Contains(t, got, "МЕГАENERGY")
}

func TestExtractBrandCandidates_Empty(t *testing.T) {
	assert.Nil(t, ExtractBrandCandidates(""))
	assert.Nil(t, ExtractBrandCandidates("НАПИТОК (ООО)"))
}

func TestParenContent(t *testing.T) {
	assert.Equal(t, "Росинка", ParenContent("Напиток 0,5л(Росинка):12"))
	assert.Equal(t, "", ParenContent("без скобок"))
}

func TestReplaceWord(t *testing.T) {
	assert.Equal(t, "ВОДА  0,5", ReplaceWord("ВОДА ПЭТ 0,5", "ПЭТ", ""))
	assert.Equal(t, "ПЭТКА", ReplaceWord("ПЭТКА", "ПЭТ", ""))
	assert.Equal(t, "X", ReplaceWord("Б/А", "Б/А", "X"))
	assert.True(t, ContainsWord("ЭНЕРГ НАП", "ЭНЕРГ"))
	assert.False(t, ContainsWord("ЭНЕРГИЯ", "ЭНЕРГ"))
}

func TestHasCyrillic(t *testing.T) {
	assert.True(t, HasCyrillic("ABC Д"))
	assert.False(t, HasCyrillic("ABC"))
}
