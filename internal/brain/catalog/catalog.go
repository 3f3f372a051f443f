// Package catalog превращает табличные записи справочника в строки model.CatalogRow.
package catalog

import (
	"strings"

	"github.com/rotisserie/eris"

	"brain-service/internal/brain/model"
	"brain-service/internal/utils"
)

// ErrMissingColumn: в справочнике нет обязательного поля. Без него строить нечего.
var ErrMissingColumn = eris.New("catalog: missing required column")

// ErrEmpty: в справочнике нет ни одной строки с товаром.
var ErrEmpty = eris.New("catalog: no rows")

// Mapping: желаемые имена колонок, варианты через "|".
type Mapping struct {
	Name        string
	Brand       string
	Producer    string
	Volume      string
	Category    string
	Subcategory string
}

// DefaultMapping: колонки product.xlsx и их русские варианты.
func DefaultMapping() Mapping {
	return Mapping{
		Name:        "xname|наименование|номенклатура|name",
		Brand:       "brand2|brand|бренд",
		Producer:    "proizvod2|producer|производитель",
		Volume:      "litrag|volume|литраж|объем",
		Category:    "category|категория",
		Subcategory: "subcategory|подкатегория",
	}
}

// Columns: реальные заголовки, найденные для каждого поля.
type Columns struct {
	Name, Brand, Producer, Volume, Category, Subcategory string
}

// Resolve сопоставляет заголовки с полями. Подкатегория необязательна,
// остальные поля обязательны.
func (m Mapping) Resolve(headers []string) (Columns, error) {
	taken := make(map[string]bool)
	pick := func(want string) string {
		h := ResolveColumn(headers, want, taken)
		if h != "" {
			taken[h] = true
		}
		return h
	}

	var c Columns
	c.Name = pick(m.Name)
	c.Brand = pick(m.Brand)
	c.Producer = pick(m.Producer)
	c.Volume = pick(m.Volume)
	// подкатегорию раньше категории: "subcategory" содержит "category"
	c.Subcategory = pick(m.Subcategory)
	c.Category = pick(m.Category)

	var missing []string
	for _, f := range []struct{ field, got string }{
		{"name", c.Name}, {"brand", c.Brand}, {"producer", c.Producer},
		{"volume", c.Volume}, {"category", c.Category},
	} {
		if f.got == "" {
			missing = append(missing, f.field)
		}
	}
	if len(missing) > 0 {
		return c, eris.Wrapf(ErrMissingColumn, "%s (headers: %s)",
			strings.Join(missing, ", "), strings.Join(headers, ", "))
	}
	return c, nil
}

// FromRecords собирает строки справочника. Колонки ищутся по headers, а
// если их нет, по ключам первой записи. Нечисловой литраж → 0, пустые
// строки и повторные шапки пропускаются. Справочник без строк — ErrEmpty.
func FromRecords(headers []string, recs []map[string]string, m Mapping) ([]model.CatalogRow, error) {
	if len(headers) == 0 && len(recs) > 0 {
		headers = HeadersOf(recs[0])
	}
	cols, err := m.Resolve(headers)
	if err != nil {
		return nil, err
	}

	rows := make([]model.CatalogRow, 0, len(recs))
	for _, rec := range recs {
		if looksLikeHeader(rec, m) {
			continue
		}
		name := strings.TrimSpace(rec[cols.Name])
		brand := strings.TrimSpace(rec[cols.Brand])
		if name == "" && brand == "" {
			continue
		}
		vol, _ := utils.ParseFloatRU(rec[cols.Volume])
		row := model.CatalogRow{
			Name:     name,
			Brand:    brand,
			Producer: strings.TrimSpace(rec[cols.Producer]),
			Category: strings.TrimSpace(rec[cols.Category]),
			Volume:   vol,
		}
		if cols.Subcategory != "" {
			row.Subcategory = strings.TrimSpace(rec[cols.Subcategory])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, eris.Wrapf(ErrEmpty, "%d records", len(recs))
	}
	return rows, nil
}
