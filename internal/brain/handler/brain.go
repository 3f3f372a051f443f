package handler

import (
	"sync"
	"sync/atomic"

	"brain-service/internal/brain/resolver"
)

// Brain: индекс, который сейчас обслуживает запросы. Пересборка кладёт
// новый целиком; запросы, начатые на старом, на нём и доработают.
type Brain struct {
	cur atomic.Pointer[resolver.Resolver]

	// одна пересборка за раз
	rebuild sync.Mutex
}

func NewBrain(r *resolver.Resolver) *Brain {
	b := &Brain{}
	b.cur.Store(r)
	return b
}

func (b *Brain) Current() *resolver.Resolver { return b.cur.Load() }

// Swap ставит r и возвращает прежний индекс.
func (b *Brain) Swap(r *resolver.Resolver) *resolver.Resolver { return b.cur.Swap(r) }
