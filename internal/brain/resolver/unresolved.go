package resolver

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"brain-service/internal/brain/model"
)

// unresolvedLog: журнал авторазборов. Пишут конкурентные Lookup.
type unresolvedLog struct {
	mu    sync.Mutex
	items []model.UnresolvedItem
}

func (l *unresolvedLog) add(it model.UnresolvedItem) {
	l.mu.Lock()
	l.items = append(l.items, it)
	l.mu.Unlock()
}

func (l *unresolvedLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *unresolvedLog) snapshot() []model.UnresolvedItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.UnresolvedItem, len(l.items))
	copy(out, l.items)
	return out
}

// Unresolved: все записи журнала, с повторами, в порядке добавления.
func (r *Resolver) Unresolved() []model.UnresolvedItem {
	return r.unresolved.snapshot()
}

// InheritUnresolved подключает r к журналу prev: записи, которые
// допишут запросы, ещё идущие на prev, попадут и в журнал r. Вызывать
// до того, как r начнёт обслуживать запросы.
func (r *Resolver) InheritUnresolved(prev *Resolver) {
	if prev == nil || prev == r {
		return
	}
	r.unresolved = prev.unresolved
}

// UnresolvedCount: сколько записей в журнале, с повторами.
func (r *Resolver) UnresolvedCount() int { return r.unresolved.len() }

// UnresolvedUnique: журнал без повторов по тексту запроса, первая запись остаётся.
func (r *Resolver) UnresolvedUnique() []model.UnresolvedItem {
	return dedupe(r.unresolved.snapshot())
}

func dedupe(items []model.UnresolvedItem) []model.UnresolvedItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]model.UnresolvedItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Query]; ok {
			continue
		}
		seen[it.Query] = struct{}{}
		out = append(out, it)
	}
	return out
}

// UnresolvedWriter сохраняет журнал нераспознанных (xlsx, SQLite).
type UnresolvedWriter interface {
	WriteUnresolved(ctx context.Context, items []model.UnresolvedItem) error
}

// SaveUnresolved пишет журнал без повторов. Пустой журнал не пишется,
// возвращается число сохранённых записей.
func (r *Resolver) SaveUnresolved(ctx context.Context, w UnresolvedWriter) (int, error) {
	items := r.UnresolvedUnique()
	if len(items) == 0 {
		return 0, nil
	}
	if err := w.WriteUnresolved(ctx, items); err != nil {
		return 0, eris.Wrap(err, "save unresolved")
	}
	r.log.Info().Int("items", len(items)).Msg("unresolved saved")
	return len(items), nil
}
