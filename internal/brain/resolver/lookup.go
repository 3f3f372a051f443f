package resolver

import (
	"context"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"brain-service/internal/brain/category"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/normalize"
)

// Уверенность ступеней каскада.
const (
	confExact     = 100.0
	confCleaned   = 95.0
	confSearchKey = 92.0
	confParsed    = 30.0

	// бренд и fuzzy не выше поискового ключа
	confBelowKey = confSearchKey

	// доля уверенности бренда, если литраж не совпал
	brandOnlyFactor = 0.9
	// с этой уверенностью бренда порог fuzzy поднимается
	brandConfidentForFuzzy = 80.0
)

// Lookup прогоняет наименование по каскаду. Никогда не падает: в худшем
// случае возвращает авторазбор (parsed) и пишет его в журнал нераспознанных.
func (r *Resolver) Lookup(query string) model.LookupResult {
	q := strings.TrimSpace(query)
	if q == "" {
		return notFound()
	}
	res := r.lookup(q)
	r.log.Debug().
		Str("query", q).
		Str("method", res.Method).
		Float64("confidence", res.Confidence).
		Msg("lookup")
	return res
}

func (r *Resolver) lookup(q string) model.LookupResult {
	// 1) Точное совпадение
	if id, ok := r.exact.get(exactKey(q)); ok {
		return r.result(q, id, model.MethodExact, confExact, q)
	}

	// 2) Очищенный текст
	if id, ok := r.cleaned.get(normalize.Clean(q)); ok {
		return r.result(q, id, model.MethodCleaned, confCleaned, q)
	}

	// 3) Поисковый ключ (с транслитерацией)
	sk := normalize.SearchKey(q)
	if id, ok := r.searchKey.get(sk); ok {
		return r.result(q, id, model.MethodSearchKey, confSearchKey, q)
	}

	// 4) Бренд + литраж
	brand, brandConf := r.brands.FindBrand(q)
	volume, hasVolume := normalize.ExtractVolume(q)

	if brand != "" && brand != model.GenericBrand && brandConf >= r.opts.BrandMinConfidence {
		if ids := r.brandIDs[brand]; len(ids) > 0 {
			if hasVolume {
				for _, id := range ids {
					if math.Abs(r.canonicals[id-1].Volume-volume) < r.opts.VolumeTolerance {
						return r.result(q, id, model.MethodBrandVolume, math.Min(brandConf, confBelowKey), q)
					}
				}
			}
			// самый частый эталон бренда
			return r.result(q, ids[0], model.MethodBrandMatch, math.Min(brandConf*brandOnlyFactor, confBelowKey), q)
		}
	}

	// 5-6) Fuzzy: сначала пул категории, затем все ключи
	if sk != "" {
		cutoff := r.opts.FuzzyThreshold
		if brand != "" && brandConf >= brandConfidentForFuzzy {
			cutoff = math.Max(cutoff, r.opts.BrandFuzzyThreshold)
		}

		switch cat := category.DetectCategory(q, brand); cat {
		case model.CategoryEnergy, model.CategorySoda:
			if m, ok := r.pools[cat].best(sk, cutoff); ok {
				return r.result(q, m.id, model.MethodFuzzyCategory, math.Min(m.score, confBelowKey), m.key)
			}
		}
		if m, ok := r.global.best(sk, cutoff); ok {
			return r.result(q, m.id, model.MethodFuzzyGlobal, math.Min(m.score, confBelowKey), m.key)
		}
	}

	// 7) Авторазбор
	var vol *float64
	if hasVolume {
		vol = &volume
	}
	return r.parseUnknown(q, brand, vol)
}

// parseUnknown разбирает неизвестное наименование по правилам и пишет
// результат в журнал.
func (r *Resolver) parseUnknown(q, brandHint string, volume *float64) model.LookupResult {
	cat := category.DetectCategory(q, brandHint)
	sub := category.DetectSubcategory(q, cat)

	vol := 0.0
	if volume != nil {
		vol = *volume
	}

	producer := normalize.NormalizeCase(normalize.ParenContent(q))
	if producer == "" {
		producer = model.UnknownProducer
	}

	candidates := normalize.ExtractBrandCandidates(q)
	rawBrand := ""
	if len(candidates) > 0 {
		rawBrand = candidates[0]
	}

	var brand string
	switch {
	case cat == model.CategorySoda:
		brand = model.GenericBrand
	case brandHint != "":
		brand = brandHint
	default:
		brand = rawBrand
	}

	item := model.UnresolvedItem{
		Query:       q,
		Brand:       brand,
		RawBrand:    rawBrand,
		Producer:    producer,
		Volume:      vol,
		Category:    cat,
		Subcategory: sub,
		PackFormat:  category.DetectPackFormat(q),
	}
	r.unresolved.add(item)

	return model.LookupResult{
		Found:       true,
		Method:      model.MethodParsed,
		Confidence:  confParsed,
		Brand:       item.Brand,
		Producer:    item.Producer,
		Volume:      item.Volume,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		PackFormat:  item.PackFormat,
	}
}

// result: найденный эталон. alias — с чем совпало (для fuzzy это ключ пула).
func (r *Resolver) result(q string, id int, method string, conf float64, alias string) model.LookupResult {
	cp, _ := r.canonical(id)
	cid := cp.ID
	return model.LookupResult{
		Found:        true,
		Method:       method,
		Confidence:   conf,
		CanonicalID:  &cid,
		Brand:        cp.Brand,
		Producer:     cp.Producer,
		Volume:       cp.Volume,
		Category:     cp.Category,
		Subcategory:  cp.Subcategory,
		PackFormat:   category.DetectPackFormat(q),
		MatchedAlias: alias,
	}
}

func notFound() model.LookupResult {
	return model.LookupResult{Method: model.MethodNotFound}
}

// LookupBatch: Lookup по списку с workers параллельными воркерами.
// Порядок результатов совпадает с порядком запросов.
func (r *Resolver) LookupBatch(ctx context.Context, queries []string, workers int) ([]model.LookupResult, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]model.LookupResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.Lookup(q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
