// Package cartsync keeps a client-side mirror of a shopper's cart and drives
// it against the storefront API.
package cartsync

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
	ordermodels "github.com/Skotchmaster/storefront/internal/order/models"
	"github.com/Skotchmaster/storefront/internal/order/transport"
)

var ErrNotInCart = errors.New("product not in cart")

// State maps product ids to cart items and remembers insertion order for
// display. It trusts whatever Replace is given; uniqueness is the server's job.
type State struct {
	mu    sync.Mutex
	order []int
	items map[int]transport.ClientCartItem
}

func NewState() *State {
	return &State{items: make(map[int]transport.ClientCartItem)}
}

// Add puts one unit of p in the cart. A new product gets a placeholder id
// that the server adopts on sync.
func (s *State) Add(p catalogmodels.Product) transport.ClientCartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[p.ID]
	if ok {
		item.Quantity++
	} else {
		item = transport.ClientCartItem{ID: uuid.NewString(), Quantity: 1, Product: p}
		s.order = append(s.order, p.ID)
	}
	s.items[p.ID] = item
	return item
}

// Adjust moves the quantity by delta. Reaching zero drops the item.
func (s *State) Adjust(productID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[productID]
	if !ok {
		return ErrNotInCart
	}
	item.Quantity += delta
	if item.Quantity <= 0 {
		s.removeLocked(productID)
		return nil
	}
	s.items[productID] = item
	return nil
}

func (s *State) Remove(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[productID]; !ok {
		return ErrNotInCart
	}
	s.removeLocked(productID)
	return nil
}

func (s *State) removeLocked(productID int) {
	delete(s.items, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Replace swaps the whole mirror for items, keeping their order.
func (s *State) Replace(items []transport.ClientCartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]int, 0, len(items))
	s.items = make(map[int]transport.ClientCartItem, len(items))
	for _, it := range items {
		if _, dup := s.items[it.Product.ID]; !dup {
			s.order = append(s.order, it.Product.ID)
		}
		s.items[it.Product.ID] = it
	}
}

func (s *State) Empty() {
	s.Replace(nil)
}

func (s *State) Items() []transport.ClientCartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]transport.ClientCartItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *State) Get(productID int) (transport.ClientCartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[productID]
	return item, ok
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// FromOrderLines projects server order lines onto cart items.
func FromOrderLines(lines []ordermodels.OrderLine) []transport.ClientCartItem {
	out := make([]transport.ClientCartItem, 0, len(lines))
	for _, l := range lines {
		item := transport.ClientCartItem{ID: l.ID, Quantity: l.Quantity, Product: catalogmodels.Product{ID: l.ProductID}}
		if l.Product != nil {
			item.Product = *l.Product
		}
		out = append(out, item)
	}
	return out
}
