package brandindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brain-service/internal/brain/model"
)

func testRows() []model.CatalogRow {
	return []model.CatalogRow{
		{Name: "BURN Напиток энерг 0,5л ж/б(Кока-Кола):24", Brand: "burn"},
		{Name: "RED BULL Напиток энерг 0,25л ж/б:24", Brand: "RED BULL"},
		{Name: "RED Напиток 0,5л", Brand: "RED"},
		{Name: "МЕГАПАУЭР Напиток тониз 0,45л ж/б(ООО Сила):24", Brand: "MEGA POWER"},
		{Name: "Лимонад Дюшес 1,5л ПЭТ", Brand: "LOCAL"},
	}
}

func TestFindBrand_Abbreviation(t *testing.T) {
	idx := Build(testRows(), nil)

	b, conf := idx.FindBrand("КК 0,5л")
	assert.Equal(t, "COCA-COLA", b)
	assert.Equal(t, ConfAbbreviation, conf)

	b, conf = idx.FindBrand("Е-ОН напиток")
	assert.Equal(t, "E-ON", b)
	assert.Equal(t, ConfAbbreviation, conf)
}

func TestFindBrand_FullName(t *testing.T) {
	idx := Build(testRows(), nil)

	b, conf := idx.FindBrand("напиток burn 0.5")
	assert.Equal(t, "BURN", b)
	assert.Equal(t, ConfBrandName, conf)
}

func TestFindBrand_LongestBrandFirst(t *testing.T) {
	idx := Build(testRows(), nil)

	b, conf := idx.FindBrand("red bull 0,25")
	assert.Equal(t, "RED BULL", b)
	assert.Equal(t, ConfBrandName, conf)
}

func TestFindBrand_TransliteratedSynonym(t *testing.T) {
	idx := Build(testRows(), nil)

	b, conf := idx.FindBrand("БЕРН энергетик")
	assert.Equal(t, "BURN", b)
	assert.Equal(t, ConfSynonym, conf)
}

func TestFindBrand_MinedSynonym(t *testing.T) {
	idx := Build(testRows(), nil)

	b, conf := idx.FindBrand("мегапауэр 0,45")
	assert.Equal(t, "MEGA POWER", b)
	assert.Equal(t, ConfSynonym, conf)
}

func TestFindBrand_NotFound(t *testing.T) {
	idx := Build([]model.CatalogRow{{Name: "Лимонад Дюшес 1,5л ПЭТ", Brand: "LOCAL"}}, nil)

	b, conf := idx.FindBrand("LOCAL лимонад")
	assert.Equal(t, "", b)
	assert.Zero(t, conf)

	b, conf = idx.FindBrand("")
	assert.Equal(t, "", b)
	assert.Zero(t, conf)
}

func TestBuild_SkipsGenericBrand(t *testing.T) {
	idx := Build(testRows(), nil)

	assert.False(t, idx.HasBrand(model.GenericBrand))
	assert.True(t, idx.HasBrand("BURN"))
	assert.Equal(t, []string{"MEGA POWER", "RED BULL", "BURN", "RED"}, idx.Brands())
}

func TestBuild_ExtraAbbreviations(t *testing.T) {
	idx := Build(testRows(), map[string]string{"тз": "tornado", "КК": "PEPSI"})

	b, conf := idx.FindBrand("ТЗ 0.5")
	assert.Equal(t, "TORNADO", b)
	assert.Equal(t, ConfAbbreviation, conf)

	// ручная таблица не перекрывается
	b, _ = idx.FindBrand("КК 1л")
	assert.Equal(t, "COCA-COLA", b)
}

func TestBuildFromBrands_NoMining(t *testing.T) {
	fresh := Build(testRows(), nil)
	reloaded := BuildFromBrands([]string{"MEGA POWER", "BURN", "burn", "LOCAL", ""}, nil)

	b, _ := fresh.FindBrand("мегапауэр")
	assert.Equal(t, "MEGA POWER", b)

	b, conf := reloaded.FindBrand("мегапауэр")
	assert.Equal(t, "", b)
	assert.Zero(t, conf)

	brands, synonyms, _ := reloaded.Stats()
	assert.Equal(t, 2, brands)
	_, freshSynonyms, _ := fresh.Stats()
	assert.Less(t, synonyms, freshSynonyms)
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(testRows(), nil)
	b := Build(testRows(), nil)

	assert.Equal(t, a.synByLen, b.synByLen)
	assert.Equal(t, a.abbrByLen, b.abbrByLen)
}

func TestMineStarts(t *testing.T) {
	got := mineStarts("BURN", []string{"BURN ЯБЛОКО НАПИТОК 0,5Л"})
	assert.Equal(t, []string{"BURN ЯБЛОКО"}, got)

	assert.Empty(t, mineStarts("X", []string{"НАПИТОК ЭНЕРГ 0,5Л Ж/Б"}))
	// одно слово короче четырёх букв не берём
	assert.Empty(t, mineStarts("X", []string{"ЛЕВ"}))
}

func TestStats(t *testing.T) {
	idx := Build(testRows(), nil)
	brands, synonyms, abbreviations := idx.Stats()

	assert.Equal(t, 4, brands)
	require.Greater(t, synonyms, brands)
	assert.Equal(t, len(manualAbbreviations), abbreviations)
}

func TestContainsToken(t *testing.T) {
	assert.True(t, containsToken("RED BULL", "RED"))
	assert.True(t, containsToken("XX RED", "RED"))
	assert.False(t, containsToken("REDBULL", "RED"))
	assert.False(t, containsToken("", "RED"))
}
