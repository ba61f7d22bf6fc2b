package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/pricing"
)

// Store holds the line items for one shopping session. It is constructed
// at session start and injected into whatever consumes it; contents are
// never persisted, so they live and die with the process.
type Store struct {
	mu     sync.Mutex
	items  []models.LineItem
	notice notice
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

type notice struct {
	message string
	expiry  time.Time
}

const defaultNoticeTTL = 2 * time.Second

func NewStore(noticeTTL time.Duration, logger *zap.Logger) *Store {
	if noticeTTL <= 0 {
		noticeTTL = defaultNoticeTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		ttl:    noticeTTL,
		now:    time.Now,
		logger: logger,
	}
}

// Add appends a new line item for the given product and variant selection
// and returns it. Every call produces a distinct line item, even for the
// same product; there is no capacity limit and no duplicate check.
func (s *Store) Add(product models.Product, size, color string) models.LineItem {
	item := models.LineItem{
		ID:            uuid.NewString(),
		Product:       product,
		SelectedSize:  size,
		SelectedColor: color,
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.postNoticeLocked("Added to Cart")
	s.mu.Unlock()

	s.logger.Debug("line item added",
		zap.String("item_id", item.ID),
		zap.String("product", product.Name))

	return item
}

// Remove deletes the line item with the given id. Removing an unknown id
// is a no-op, not an error. Remaining items keep their order.
func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.postNoticeLocked("Item Removed")
	s.mu.Unlock()
}

// Clear discards all line items. Idempotent; posts no notice.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns the current line items in insertion order.
func (s *Store) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the current line item count, for the cart badge.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice sums the normalized price of every line item. Empty cart
// totals zero.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		total += pricing.Normalize(item.Product.Price)
	}
	return total
}

// Notice returns the pending notification message, if one is still live.
// The slot holds at most one message: a newer notice overwrites whatever
// was pending, and each message lapses once its TTL passes. Expiry is
// evaluated here at read time, so there is no timer racing a fresh
// message off the slot.
func (s *Store) Notice() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice.message == "" || s.now().After(s.notice.expiry) {
		return "", false
	}
	return s.notice.message, true
}

func (s *Store) postNoticeLocked(message string) {
	s.notice = notice{
		message: message,
		expiry:  s.now().Add(s.ttl),
	}
}
