// Package resolver реализует «мозг»: эталоны, алиасы и каскад поиска по наименованию.
package resolver

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brain-service/internal/brain/brandindex"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/normalize"
)

// Resolver после построения только читается; общий изменяемый кусок —
// журнал нераспознанных, он под мьютексом.
type Resolver struct {
	opts model.Options
	log  zerolog.Logger

	canonicals []model.CanonicalProduct // canonicals[id-1]
	brands     *brandindex.Index
	brandIDs   map[string][]int // бренд -> id по возрастанию

	exact     *aliasMap
	cleaned   *aliasMap
	searchKey *aliasMap

	pools  map[string]*pool // категория -> ключи; ПРОЧЕЕ — общая корзина
	global *pool

	unresolved *unresolvedLog
}

// aliasMap: ключ -> id с порядком первой вставки, первый записавший выигрывает.
type aliasMap struct {
	m     map[string]int
	order []string
}

func newAliasMap() *aliasMap { return &aliasMap{m: make(map[string]int)} }

func (a *aliasMap) claim(key string, id int) bool {
	if key == "" {
		return false
	}
	if _, ok := a.m[key]; ok {
		return false
	}
	a.m[key] = id
	a.order = append(a.order, key)
	return true
}

func (a *aliasMap) get(key string) (int, bool) {
	id, ok := a.m[key]
	return id, ok
}

func (a *aliasMap) len() int { return len(a.m) }

// groupKey: то, что делает эталон уникальным.
type groupKey struct {
	brand, producer string
	volume          float64
	category        string
}

type group struct {
	key         groupKey
	subcategory string
	rows        []int // индексы строк в исходном порядке
}

// Build строит индекс по справочнику. Один проход, целиком; до конца
// построения Lookup не вызывается.
func Build(rows []model.CatalogRow, opts model.Options, logger zerolog.Logger) *Resolver {
	start := time.Now()
	r := newResolver(opts, logger)

	// 1) Нормализация бренда/производителя/категории
	norm := make([]model.CatalogRow, len(rows))
	for i, row := range rows {
		norm[i] = model.CatalogRow{
			Name:        strings.TrimSpace(row.Name),
			Brand:       normalize.NormalizeCase(row.Brand),
			Producer:    normalize.NormalizeCase(row.Producer),
			Category:    normalize.NormalizeCase(row.Category),
			Volume:      row.Volume,
			Subcategory: strings.TrimSpace(row.Subcategory),
		}
	}

	// 2) Индекс брендов
	r.brands = brandindex.Build(norm, opts.ExtraAbbreviations)

	// 3) Группы по (бренд, производитель, литраж, категория), частые первыми.
	// При равном числе строк — порядок первого появления.
	var groups []*group
	byKey := make(map[groupKey]*group)
	for i, row := range norm {
		k := groupKey{row.Brand, row.Producer, row.Volume, row.Category}
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k, subcategory: row.Subcategory}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].rows) > len(groups[j].rows)
	})

	for i, g := range groups {
		r.addCanonical(model.CanonicalProduct{
			ID:          i + 1,
			Brand:       g.key.brand,
			Producer:    g.key.producer,
			Volume:      g.key.volume,
			Category:    g.key.category,
			Subcategory: g.subcategory,
		})
	}

	// 4) Алиасы: группы по id, внутри группы — исходный порядок строк.
	// LOCAL откладываем и добавляем последними, только в свободные ключи.
	var generic []model.Alias
	for i, g := range groups {
		id := i + 1
		for _, ri := range g.rows {
			a := model.Alias{Name: norm[ri].Name, CanonicalID: id}
			if g.key.brand == model.GenericBrand {
				generic = append(generic, a)
				continue
			}
			r.addAlias(a, g.key.category)
		}
	}
	for _, a := range generic {
		r.addAlias(a, "")
	}

	r.logBuild("brain built", len(rows), time.Since(start))
	return r
}

func newResolver(opts model.Options, logger zerolog.Logger) *Resolver {
	return &Resolver{
		opts:      opts,
		log:       logger,
		brandIDs:  make(map[string][]int),
		exact:     newAliasMap(),
		cleaned:   newAliasMap(),
		searchKey: newAliasMap(),
		pools: map[string]*pool{
			model.CategoryEnergy: newPool(),
			model.CategorySoda:   newPool(),
			model.CategoryOther:  newPool(),
		},
		global:     newPool(),
		unresolved: &unresolvedLog{},
	}
}

func (r *Resolver) addCanonical(cp model.CanonicalProduct) {
	r.canonicals = append(r.canonicals, cp)
	r.brandIDs[cp.Brand] = append(r.brandIDs[cp.Brand], cp.ID)
}

// addAlias регистрирует три ключа наименования. category пустая — алиас
// LOCAL, в категорийные пулы не попадает.
func (r *Resolver) addAlias(a model.Alias, category string) {
	r.exact.claim(exactKey(a.Name), a.CanonicalID)
	r.cleaned.claim(normalize.Clean(a.Name), a.CanonicalID)

	sk := normalize.SearchKey(a.Name)
	if !r.searchKey.claim(sk, a.CanonicalID) {
		return
	}
	r.global.add(sk, a.CanonicalID)
	if category == "" {
		return
	}
	p, ok := r.pools[category]
	if !ok {
		p = r.pools[model.CategoryOther]
	}
	p.add(sk, a.CanonicalID)
}

func exactKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (r *Resolver) canonical(id int) (model.CanonicalProduct, bool) {
	if id < 1 || id > len(r.canonicals) {
		return model.CanonicalProduct{}, false
	}
	return r.canonicals[id-1], true
}

// Canonicals: копия эталонов по возрастанию id.
func (r *Resolver) Canonicals() []model.CanonicalProduct {
	out := make([]model.CanonicalProduct, len(r.canonicals))
	copy(out, r.canonicals)
	return out
}

// Options: пороги, с которыми построен индекс.
func (r *Resolver) Options() model.Options { return r.opts }

// Stats: сводка по индексу.
func (r *Resolver) Stats() model.Stats {
	st := model.Stats{
		Canonicals:          len(r.canonicals),
		AliasesExact:        r.exact.len(),
		AliasesCleaned:      r.cleaned.len(),
		AliasesSearchKey:    r.searchKey.len(),
		Pools:               make(map[string]int, len(r.pools)),
		FuzzyThreshold:      r.opts.FuzzyThreshold,
		BrandFuzzyThreshold: r.opts.BrandFuzzyThreshold,
		Unresolved:          r.unresolved.len(),
	}
	brands := make(map[string]struct{})
	for _, cp := range r.canonicals {
		if cp.Brand == model.GenericBrand {
			st.Generic++
			continue
		}
		st.Branded++
		brands[cp.Brand] = struct{}{}
	}
	st.Brands = len(brands)
	_, st.Synonyms, st.Abbreviations = r.brands.Stats()
	for cat, p := range r.pools {
		st.Pools[cat] = p.size()
	}
	return st
}

func (r *Resolver) logBuild(msg string, rows int, elapsed time.Duration) {
	brands, synonyms, abbrs := r.brands.Stats()
	r.log.Info().
		Int("rows", rows).
		Int("canonicals", len(r.canonicals)).
		Int("brands", brands).
		Int("synonyms", synonyms).
		Int("abbreviations", abbrs).
		Int("exact", r.exact.len()).
		Int("cleaned", r.cleaned.len()).
		Int("search_key", r.searchKey.len()).
		Int("pool_energy", r.pools[model.CategoryEnergy].size()).
		Int("pool_soda", r.pools[model.CategorySoda].size()).
		Int("pool_other", r.pools[model.CategoryOther].size()).
		Dur("elapsed", elapsed).
		Msg(msg)
}
