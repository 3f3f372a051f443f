package catalog

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords(t *testing.T) {
	recs := []map[string]string{
		{"xname": "BURN 0,5л ж/б", "brand2": "BURN", "proizvod2": "Кока-Кола", "litrag": "0,5", "category": "ЭНЕРГЕТИКИ", "subcategory": "ж/б"},
		{"xname": "  ", "brand2": "", "proizvod2": "", "litrag": "", "category": "", "subcategory": ""},
		{"xname": "Лимонад", "brand2": "LOCAL", "proizvod2": "", "litrag": "н/д", "category": "ГАЗИРОВКА", "subcategory": ""},
	}

	rows, err := FromRecords(nil, recs, DefaultMapping())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "BURN 0,5л ж/б", rows[0].Name)
	assert.Equal(t, "Кока-Кола", rows[0].Producer)
	assert.InDelta(t, 0.5, rows[0].Volume, 1e-9)
	assert.Equal(t, "ж/б", rows[0].Subcategory)

	// нечисловой литраж становится нулём
	assert.Zero(t, rows[1].Volume)
}

func TestFromRecords_RussianHeaders(t *testing.T) {
	recs := []map[string]string{
		{"Наименование товара": "Фанта 1л", "Бренд": "FANTA", "Производитель": "Кока-Кола", "Литраж, л": "1", "Категория": "ГАЗИРОВКА"},
	}
	rows, err := FromRecords(nil, recs, DefaultMapping())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Фанта 1л", rows[0].Name)
	assert.Equal(t, "FANTA", rows[0].Brand)
	assert.InDelta(t, 1.0, rows[0].Volume, 1e-9)
	assert.Equal(t, "", rows[0].Subcategory)
}

func TestFromRecords_MissingColumn(t *testing.T) {
	recs := []map[string]string{
		{"xname": "BURN", "brand2": "BURN", "litrag": "0,5", "subcategory": "x"},
	}
	_, err := FromRecords(nil, recs, DefaultMapping())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "producer")
	assert.Contains(t, err.Error(), "category")
}

func TestFromRecords_SkipsRepeatedHeader(t *testing.T) {
	recs := []map[string]string{
		{"xname": "xname", "brand2": "brand2", "proizvod2": "proizvod2", "litrag": "litrag", "category": "category"},
		{"xname": "BURN", "brand2": "BURN", "proizvod2": "", "litrag": "0,5", "category": "ЭНЕРГЕТИКИ"},
	}
	rows, err := FromRecords(nil, recs, DefaultMapping())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BURN", rows[0].Name)
}

func TestFromRecords_Empty(t *testing.T) {
	_, err := FromRecords(nil, nil, DefaultMapping())
	assert.True(t, eris.Is(err, ErrMissingColumn))

	// шапка без строк: колонки проверяются по заголовкам
	_, err = FromRecords([]string{"foo", "bar"}, nil, DefaultMapping())
	assert.True(t, eris.Is(err, ErrMissingColumn))

	headers := []string{"xname", "brand2", "proizvod2", "litrag", "category"}
	_, err = FromRecords(headers, nil, DefaultMapping())
	assert.True(t, eris.Is(err, ErrEmpty))

	_, err = FromRecords(headers, []map[string]string{{"xname": " ", "brand2": ""}}, DefaultMapping())
	assert.True(t, eris.Is(err, ErrEmpty))
}

func TestFromRecords_HeadersWinOverRecordKeys(t *testing.T) {
	headers := []string{"Наименование", "Бренд", "Производитель", "Литраж", "Категория"}
	recs := []map[string]string{
		{"Наименование": "Фанта 1л", "Бренд": "FANTA", "Производитель": "Кока-Кола", "Литраж": "1", "Категория": "ГАЗИРОВКА"},
	}
	rows, err := FromRecords(headers, recs, DefaultMapping())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "FANTA", rows[0].Brand)
}

func TestResolveColumn(t *testing.T) {
	headers := []string{"Код", "Наименование товара", "Кол-во"}
	assert.Equal(t, "Наименование товара", ResolveColumn(headers, "xname|наименование", nil))
	assert.Equal(t, "Код", ResolveColumn(headers, "код", nil))
	assert.Equal(t, "", ResolveColumn(headers, "brand", nil))
	assert.Equal(t, "", ResolveColumn(headers, "", nil))
	assert.Equal(t, "", ResolveColumn(headers, "код", map[string]bool{"Код": true}))
}

func TestNormHeaderKey(t *testing.T) {
	assert.Equal(t, "литраж л", NormHeaderKey(" Литраж, л "))
	assert.Equal(t, "объем", NormHeaderKey("Объём"))
}
