// Package enrich дописывает к таблице наименований поля эталона: бренд,
// производителя, литраж и категорию.
package enrich

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"brain-service/internal/brain/catalog"
	"brain-service/internal/brain/model"
	"brain-service/internal/fileio"
	"brain-service/internal/utils"
)

// ErrNoNameColumn: в таблице не нашлось колонки с наименованием.
var ErrNoNameColumn = eris.New("enrich: name column not found")

// NameColumn: варианты заголовка колонки с наименованием.
const NameColumn = "xname|наименование|номенклатура|name"

// MinConfidence: ниже этой уверенности строку не трогаем.
const MinConfidence = 30.0

// Колонки результата.
const (
	ColBrand       = "brand2"
	ColProducer    = "proizvod2"
	ColVolume      = "litrag"
	ColCategory    = "category"
	ColSubcategory = "subcategory"
	ColMethod      = "method"
	ColConfidence  = "confidence"
)

var outColumns = []string{ColBrand, ColProducer, ColVolume, ColCategory, ColSubcategory, ColMethod, ColConfidence}

// Batch: то, чем резолвим наименования (resolver.Resolver).
type Batch interface {
	LookupBatch(ctx context.Context, queries []string, workers int) ([]model.LookupResult, error)
}

// Summary: итог прогона.
type Summary struct {
	Rows       int            `json:"rows"`
	Updated    int            `json:"updated"`
	Skipped    int            `json:"skipped"`
	NameColumn string         `json:"name_column"`
	ByMethod   map[string]int `json:"by_method"`
	ByCategory map[string]int `json:"by_category"`
}

// Result: дополненная таблица и результаты поиска по строкам.
type Result struct {
	Table   fileio.Table         `json:"-"`
	Results []model.LookupResult `json:"results"`
	Summary Summary              `json:"summary"`
}

// Resolve прогоняет колонку наименований через b и дописывает поля эталона.
// Входная таблица не меняется. Существующие значения перезаписываются,
// только если найдено что-то с уверенностью от MinConfidence; пустые бренд,
// UNKNOWN-производитель и нулевой литраж старые значения не затирают.
func Resolve(ctx context.Context, b Batch, t fileio.Table, workers int) (Result, error) {
	nameCol := catalog.ResolveColumn(t.Headers, NameColumn, nil)
	if nameCol == "" {
		return Result{}, eris.Wrapf(ErrNoNameColumn, "headers: %s", strings.Join(t.Headers, ", "))
	}

	queries := make([]string, len(t.Rows))
	for i, rec := range t.Rows {
		queries[i] = rec[nameCol]
	}
	results, err := b.LookupBatch(ctx, queries, workers)
	if err != nil {
		return Result{}, eris.Wrap(err, "enrich: lookup")
	}

	out := fileio.Table{Headers: withOutColumns(t.Headers), Rows: make([]map[string]string, len(t.Rows))}
	sum := Summary{
		Rows:       len(t.Rows),
		NameColumn: nameCol,
		ByMethod:   make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for i, rec := range t.Rows {
		row := make(map[string]string, len(out.Headers))
		for k, v := range rec {
			row[k] = v
		}
		res := results[i]
		if apply(row, res) {
			sum.Updated++
		} else {
			sum.Skipped++
		}
		sum.ByMethod[res.Method]++
		if res.Found && res.Category != "" {
			sum.ByCategory[res.Category]++
		}
		out.Rows[i] = row
	}
	return Result{Table: out, Results: results, Summary: sum}, nil
}

// apply пишет результат в строку; false — строка пропущена.
func apply(row map[string]string, res model.LookupResult) bool {
	row[ColMethod] = res.Method
	row[ColConfidence] = utils.FormatFloat(math.Round(res.Confidence*10) / 10)
	if !res.Found || res.Confidence < MinConfidence {
		return false
	}
	if res.Brand != "" {
		row[ColBrand] = res.Brand
	}
	if res.Producer != "" && res.Producer != model.UnknownProducer {
		row[ColProducer] = res.Producer
	}
	if res.Volume > 0 {
		row[ColVolume] = utils.FormatFloat(res.Volume)
	}
	if res.Category != "" {
		row[ColCategory] = strings.ToLower(res.Category)
	}
	if res.Subcategory != "" {
		row[ColSubcategory] = res.Subcategory
	}
	return true
}

// недостающие колонки результата дописываются справа
func withOutColumns(headers []string) []string {
	out := make([]string, len(headers), len(headers)+len(outColumns))
	copy(out, headers)
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}
	for _, c := range outColumns {
		if !have[c] {
			out = append(out, c)
		}
	}
	return out
}
