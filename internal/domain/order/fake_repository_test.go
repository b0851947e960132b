package order

import (
	"context"
	"strings"
	"sync"

	"github.com/zozagateway/snack-backend/internal/pkg/apperror"
)

// memoryRepository mirrors GormRepository's transactional behaviour in memory
type memoryRepository struct {
	mu      sync.Mutex
	orders  map[uint]*Order
	stock   map[uint]int
	promos  map[string]*PromoCode
	events  map[string]ProcessedEvent
	nextID  uint
	entryID uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		orders: make(map[uint]*Order),
		stock:  make(map[uint]int),
		promos: make(map[string]*PromoCode),
		events: make(map[string]ProcessedEvent),
	}
}

func (r *memoryRepository) Create(_ context.Context, o *Order, promoID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range o.Items {
		if r.stock[item.ProductID] < item.Quantity {
			return apperror.Invalid("insufficient stock for %s", item.ProductName)
		}
	}
	for _, item := range o.Items {
		r.stock[item.ProductID] -= item.Quantity
	}
	if promoID != nil {
		for _, p := range r.promos {
			if p.ID == *promoID {
				p.UsedCount++
			}
		}
	}

	r.nextID++
	o.ID = r.nextID
	for i := range o.Timeline {
		r.entryID++
		o.Timeline[i].ID = r.entryID
		o.Timeline[i].OrderID = o.ID
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = clone(o)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id uint) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperror.NotFound("order")
	}
	return clone(o), nil
}

func (r *memoryRepository) List(_ context.Context, f ListFilter) ([]Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Order
	for id := uint(1); id <= r.nextID; id++ {
		o, ok := r.orders[id]
		if !ok {
			continue
		}
		if f.UserID > 0 && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(o.OrderNumber), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *clone(o))
	}
	total := int64(len(out))

	start := f.Paging.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Paging.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *memoryRepository) Update(_ context.Context, id uint, event *ProcessedEvent, fn Mutation) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event != nil {
		if _, seen := r.events[event.EventID]; seen {
			return nil, ErrDuplicateEvent
		}
	}

	stored, ok := r.orders[id]
	if !ok {
		return nil, apperror.NotFound("order")
	}

	working := clone(stored)
	before := working.Status
	entry, err := fn(working)
	if err != nil {
		return nil, err
	}

	if entry != nil {
		r.entryID++
		entry.ID = r.entryID
		entry.OrderID = id
		working.Timeline = append(working.Timeline, *entry)
	}
	if before != StatusCancelled && working.Status == StatusCancelled {
		for _, item := range working.Items {
			r.stock[item.ProductID] += item.Quantity
		}
	}
	if event != nil {
		event.OrderID = id
		r.events[event.EventID] = *event
	}

	r.orders[id] = working
	return clone(working), nil
}

func (r *memoryRepository) FindPromo(_ context.Context, code string) (*PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.promos[strings.ToUpper(code)]
	if !ok {
		return nil, apperror.NotFound("promo code")
	}
	cp := *p
	return &cp, nil
}

func clone(o *Order) *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	cp.Timeline = append([]TimelineEntry(nil), o.Timeline...)
	return &cp
}
