// Package handler содержит HTTP-ручки сервиса (поиск, разбор файла, пересборка индекса).
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"brain-service/internal/brain/bootstrap"
	"brain-service/internal/brain/catalog"
	"brain-service/internal/brain/enrich"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/resolver"
	"brain-service/internal/config"
	"brain-service/internal/fileio"
	"brain-service/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type lookupRequest struct {
	Query string `json:"query"`
}

type batchRequest struct {
	Queries []string `json:"queries"`
}

type batchResponse struct {
	Results []model.LookupResult `json:"results"`
}

type resolveResponse struct {
	Summary enrich.Summary      `json:"summary"`
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

type catalogResponse struct {
	Rows       int         `json:"rows"`
	Stats      model.Stats `json:"stats"`
	Unresolved int         `json:"unresolved_saved"`
}

func Health(b *Brain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":     "ok",
			"canonicals": len(b.Current().Canonicals()),
		})
	}
}

// Lookup: POST {"query": "..."} -> LookupResult.
func Lookup(b *Brain, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		br := b.Current()
		res := br.Lookup(req.Query)
		observe(m, br, res)
		writeJSON(w, r, http.StatusOK, res)
	}
}

// LookupBatch: POST {"queries": [...]}; результаты в порядке запросов.
func LookupBatch(cfg config.Config, b *Brain, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())

		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		br := b.Current()
		results, err := br.LookupBatch(r.Context(), req.Queries, cfg.BatchWorkers)
		if err != nil {
			writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		observe(m, br, results...)
		writeJSON(w, r, http.StatusOK, batchResponse{Results: results})

		log.Info().
			Int("queries", len(req.Queries)).
			Dur("elapsed", time.Since(start)).
			Msg("lookup batch done")
	}
}

// Resolve принимает multipart с file (xlsx/xls/csv) с колонкой наименований.
// Поля: header_row (1), format=json|xlsx.
func Resolve(cfg config.Config, b *Brain, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		tbl, err := fileio.ReadAnyTable(file, header.Filename, atoi(r.FormValue("header_row"), 1))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "failed to read file: "+err.Error())
			return
		}

		br := b.Current()
		out, err := enrich.Resolve(r.Context(), br, tbl, cfg.BatchWorkers)
		switch {
		case eris.Is(err, enrich.ErrNoNameColumn):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		case err != nil:
			writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		observe(m, br, out.Results...)

		log.Info().
			Str("file", header.Filename).
			Int("rows", out.Summary.Rows).
			Int("updated", out.Summary.Updated).
			Int("skipped", out.Summary.Skipped).
			Dur("elapsed", time.Since(start)).
			Msg("resolve done")

		if strings.EqualFold(r.FormValue("format"), "xlsx") {
			name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename)) + "_resolved.xlsx"
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
			if err := fileio.WriteXLSX(w, out.Table.Sheet("Результат"), summarySheet(out.Summary)); err != nil {
				log.Error().Err(err).Msg("write xlsx")
			}
			return
		}
		writeJSON(w, r, http.StatusOK, resolveResponse{
			Summary: out.Summary,
			Headers: out.Table.Headers,
			Rows:    out.Table.Rows,
		})
	}
}

// Catalog принимает multipart с file справочника. Новый индекс строится рядом,
// старый обслуживает запросы, пока новый не готов. Журнал нераспознанных
// переходит к новому индексу и сохраняется сразу после замены.
func Catalog(cfg config.Config, b *Brain, m *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := zerolog.Ctx(r.Context())

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		tbl, err := fileio.ReadAnyTable(file, header.Filename, atoi(r.FormValue("header_row"), 1))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "failed to read catalog: "+err.Error())
			return
		}
		rows, err := catalog.FromRecords(tbl.Headers, tbl.Rows, catalog.DefaultMapping())
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}

		b.rebuild.Lock()
		defer b.rebuild.Unlock()

		cur := b.Current()
		next := resolver.Build(rows, cur.Options(), *log)
		next.InheritUnresolved(cur)
		if cfg.BrainPath != "" && toBool(r.FormValue("save"), true) {
			if err := bootstrap.SaveIndex(r.Context(), next, cfg.BrainPath); err != nil {
				writeError(w, r, http.StatusInternalServerError, err.Error())
				return
			}
		}

		prev := b.Swap(next)
		st := next.Stats()
		m.ObserveIndex(bootstrap.SourceUpload, time.Since(start), st)

		saved, err := bootstrap.SaveUnresolved(r.Context(), prev, cfg.UnresolvedPath)
		if err != nil {
			log.Error().Err(err).Msg("save unresolved")
		}

		log.Info().
			Str("file", header.Filename).
			Int("rows", len(rows)).
			Int("canonicals", st.Canonicals).
			Dur("elapsed", time.Since(start)).
			Msg("catalog rebuilt")

		writeJSON(w, r, http.StatusOK, catalogResponse{Rows: len(rows), Stats: st, Unresolved: saved})
	}
}

func Stats(b *Brain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, b.Current().Stats())
	}
}

// Unresolved: журнал без повторов; all=1 — все записи.
func Unresolved(b *Brain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		br := b.Current()
		items := br.UnresolvedUnique()
		if toBool(r.URL.Query().Get("all"), false) {
			items = br.Unresolved()
		}
		writeJSON(w, r, http.StatusOK, map[string]any{
			"count": len(items),
			"items": items,
		})
	}
}

func observe(m *metrics.Collector, br *resolver.Resolver, results ...model.LookupResult) {
	if m == nil {
		return
	}
	for _, res := range results {
		m.ObserveLookup(res)
	}
	m.SetUnresolved(br.UnresolvedCount())
}

// сводка по методам и категориям вторым листом
func summarySheet(s enrich.Summary) fileio.Sheet {
	sh := fileio.Sheet{Name: "Сводка", Headers: []string{"metric", "key", "count"}}
	sh.Rows = append(sh.Rows,
		[]any{"rows", "", s.Rows},
		[]any{"updated", "", s.Updated},
		[]any{"skipped", "", s.Skipped},
	)
	for _, k := range sortedKeys(s.ByMethod) {
		sh.Rows = append(sh.Rows, []any{"method", k, s.ByMethod[k]})
	}
	for _, k := range sortedKeys(s.ByCategory) {
		sh.Rows = append(sh.Rows, []any{"category", k, s.ByCategory[k]})
	}
	return sh
}
