package resolver

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"brain-service/internal/brain/brandindex"
	"brain-service/internal/brain/model"
)

// ErrUnknownCanonical: сохранённый алиас ссылается на несуществующий эталон.
var ErrUnknownCanonical = eris.New("resolver: alias references unknown canonical id")

// IndexWriter сохраняет эталоны и точные алиасы.
type IndexWriter interface {
	WriteIndex(ctx context.Context, snap model.Snapshot) error
}

// IndexReader читает сохранённый индекс.
type IndexReader interface {
	ReadIndex(ctx context.Context) (model.Snapshot, error)
}

// Snapshot: эталоны по id и точные алиасы в порядке регистрации.
func (r *Resolver) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Canonicals: r.Canonicals(),
		Aliases:    make([]model.Alias, 0, r.exact.len()),
	}
	for _, k := range r.exact.order {
		snap.Aliases = append(snap.Aliases, model.Alias{Name: k, CanonicalID: r.exact.m[k]})
	}
	return snap
}

// Save пишет индекс через w.
func (r *Resolver) Save(ctx context.Context, w IndexWriter) error {
	snap := r.Snapshot()
	if err := w.WriteIndex(ctx, snap); err != nil {
		return eris.Wrap(err, "save index")
	}
	r.log.Info().
		Int("canonicals", len(snap.Canonicals)).
		Int("aliases", len(snap.Aliases)).
		Msg("brain saved")
	return nil
}

// Load восстанавливает индекс из сохранённого.
func Load(ctx context.Context, rd IndexReader, opts model.Options, logger zerolog.Logger) (*Resolver, error) {
	snap, err := rd.ReadIndex(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load index")
	}
	return FromSnapshot(snap, opts, logger)
}

// FromSnapshot собирает индекс из эталонов и точных алиасов. Очищенные
// и поисковые ключи пересчитываются из алиасов; синонимы брендов строятся
// только по названиям брендов, без разбора наименований, поэтому такой
// индекс находит не больше, чем свежепостроенный.
// TODO: хранить добытые синонимы брендов рядом с алиасами и поднимать их здесь.
func FromSnapshot(snap model.Snapshot, opts model.Options, logger zerolog.Logger) (*Resolver, error) {
	start := time.Now()
	r := newResolver(opts, logger)

	byID := make(map[int]model.CanonicalProduct, len(snap.Canonicals))
	for _, cp := range snap.Canonicals {
		byID[cp.ID] = cp
	}
	// id идут подряд с 1
	brands := make([]string, 0, len(byID))
	for id := 1; id <= len(byID); id++ {
		cp, ok := byID[id]
		if !ok {
			return nil, eris.Errorf("resolver: canonical ids are not contiguous, missing %d", id)
		}
		r.addCanonical(cp)
		brands = append(brands, cp.Brand)
	}
	r.brands = brandindex.BuildFromBrands(brands, opts.ExtraAbbreviations)

	var generic []model.Alias
	for _, a := range snap.Aliases {
		cp, ok := r.canonical(a.CanonicalID)
		if !ok {
			return nil, eris.Wrapf(ErrUnknownCanonical, "alias %q -> %d", a.Name, a.CanonicalID)
		}
		if cp.Brand == model.GenericBrand {
			generic = append(generic, a)
			continue
		}
		r.addAlias(a, cp.Category)
	}
	for _, a := range generic {
		r.addAlias(a, "")
	}

	r.logBuild("brain loaded", len(snap.Aliases), time.Since(start))
	return r, nil
}
