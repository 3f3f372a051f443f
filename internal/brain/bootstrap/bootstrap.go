// Package bootstrap поднимает индекс по настройкам: из справочника (файл
// или SQL) либо из сохранённого индекса.
package bootstrap

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"brain-service/internal/brain/catalog"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/resolver"
	"brain-service/internal/config"
	"brain-service/internal/fileio"
	"brain-service/internal/metrics"
	"brain-service/internal/store"
)

// ErrNoSource: нет ни справочника, ни сохранённого индекса.
var ErrNoSource = eris.New("bootstrap: no catalog and no saved index")

// Источники индекса (метка source в метриках).
const (
	SourceCatalog  = "catalog"
	SourceSQL      = "sql"
	SourceSnapshot = "snapshot"
	SourceUpload   = "upload"
)

// Options: пороги из конфига плюс ручной словарь, если задан.
func Options(cfg config.Config) (model.Options, error) {
	d, err := config.LoadDictionary(cfg.DictionaryFile)
	if err != nil {
		return model.Options{}, err
	}
	return cfg.Options(d.Abbreviations), nil
}

// Open: индекс для сервиса. SQL-справочник всегда строится заново;
// иначе берётся сохранённый индекс, а если его нет — файл справочника.
// Свежепостроенный индекс сохраняется в BrainPath.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger, m *metrics.Collector) (*resolver.Resolver, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.UseSQLCatalog() && cfg.BrainPath != "" && store.Exists(cfg.BrainPath) {
		return FromIndex(ctx, cfg.BrainPath, opts, logger, m)
	}
	return Build(ctx, cfg, opts, logger, m)
}

// Build строит индекс из справочника и сохраняет его.
func Build(ctx context.Context, cfg config.Config, opts model.Options, logger zerolog.Logger, m *metrics.Collector) (*resolver.Resolver, error) {
	start := time.Now()

	var (
		rows   []model.CatalogRow
		source string
		err    error
	)
	switch {
	case cfg.UseSQLCatalog():
		source = SourceSQL
		rows, err = store.LoadCatalog(ctx, cfg.CatalogDriver, cfg.CatalogDSN, cfg.CatalogQuery, catalog.DefaultMapping())
	case cfg.CatalogPath != "" && store.Exists(cfg.CatalogPath):
		source = SourceCatalog
		rows, err = ReadCatalog(cfg.CatalogPath)
	default:
		return nil, eris.Wrapf(ErrNoSource, "catalog %q, index %q", cfg.CatalogPath, cfg.BrainPath)
	}
	if err != nil {
		return nil, err
	}
	logger.Info().Str("source", source).Int("rows", len(rows)).Msg("catalog loaded")

	r := resolver.Build(rows, opts, logger)
	m.ObserveIndex(source, time.Since(start), r.Stats())

	if cfg.BrainPath != "" {
		if err := SaveIndex(ctx, r, cfg.BrainPath); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ReadCatalog читает файл справочника (xlsx, xls, csv).
func ReadCatalog(path string) ([]model.CatalogRow, error) {
	tbl, err := fileio.ReadTableFile(path, 1)
	if err != nil {
		return nil, err
	}
	rows, err := catalog.FromRecords(tbl.Headers, tbl.Rows, catalog.DefaultMapping())
	if err != nil {
		return nil, eris.Wrapf(err, "catalog %s", path)
	}
	return rows, nil
}

// FromIndex поднимает сохранённый индекс.
func FromIndex(ctx context.Context, path string, opts model.Options, logger zerolog.Logger, m *metrics.Collector) (*resolver.Resolver, error) {
	start := time.Now()
	idx, err := store.OpenIndex(path)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	r, err := resolver.Load(ctx, idx, opts, logger)
	if err != nil {
		return nil, eris.Wrapf(err, "index %s", path)
	}
	m.ObserveIndex(SourceSnapshot, time.Since(start), r.Stats())
	return r, nil
}

// SaveIndex пишет индекс в файл (.xlsx или SQLite).
func SaveIndex(ctx context.Context, r *resolver.Resolver, path string) error {
	idx, err := store.OpenIndex(path)
	if err != nil {
		return err
	}
	defer idx.Close()
	return r.Save(ctx, idx)
}

// SaveUnresolved пишет журнал нераспознанных. Пустой путь — не пишем.
func SaveUnresolved(ctx context.Context, r *resolver.Resolver, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	u, err := store.OpenUnresolved(path)
	if err != nil {
		return 0, err
	}
	defer u.Close()
	return r.SaveUnresolved(ctx, u)
}
