// Package live is the thin state-holding layer between the Entity Store
// subscriptions and everything else. It retains the latest full snapshot of
// each collection and fans new snapshots out to stream subscribers.
//
// The catalog computations never touch this package — handlers read copies
// out of it and pass them to pure functions.
package live

import (
	"sync"

	"markettakip/app/models"
	"markettakip/pkg/collection"
	"markettakip/pkg/metrics"
	"markettakip/pkg/store"
)

// Event is one snapshot push: the collection name and its complete new
// contents.
type Event struct {
	Collection string `json:"collection"`
	Data       any    `json:"data"`
}

// subBuffer is the per-subscriber event buffer; slow consumers drop
// intermediate snapshots, which is safe because each event is a full
// replacement.
const subBuffer = 16

// State holds the latest authoritative snapshots.
type State struct {
	mu        sync.RWMutex
	products  []models.Product
	returns   []models.ReturnItem
	photos    []models.SupplierPhoto
	suppliers []models.Supplier

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

func NewState() *State {
	return &State{subs: make(map[chan Event]struct{})}
}

// SetProducts replaces the product snapshot and notifies subscribers.
func (s *State) SetProducts(products []models.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	s.publish(store.Products, products)
}

// SetReturns replaces the return-record snapshot and notifies subscribers.
func (s *State) SetReturns(returns []models.ReturnItem) {
	s.mu.Lock()
	s.returns = returns
	s.mu.Unlock()
	s.publish(store.Returns, returns)
}

// SetPhotos replaces the supplier-photo snapshot and notifies subscribers.
func (s *State) SetPhotos(photos []models.SupplierPhoto) {
	s.mu.Lock()
	s.photos = photos
	s.mu.Unlock()
	s.publish(store.SupplierPhotos, photos)
}

// SetSuppliers replaces the registry snapshot and notifies subscribers.
func (s *State) SetSuppliers(suppliers []models.Supplier) {
	s.mu.Lock()
	s.suppliers = suppliers
	s.mu.Unlock()
	s.publish(store.Suppliers, suppliers)
}

// Products returns a copy of the latest product snapshot.
func (s *State) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

// Returns returns a copy of the latest return-record snapshot.
func (s *State) Returns() []models.ReturnItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ReturnItem(nil), s.returns...)
}

// Photos returns a copy of the latest supplier-photo snapshot.
func (s *State) Photos() []models.SupplierPhoto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SupplierPhoto(nil), s.photos...)
}

// Suppliers returns a copy of the latest registry snapshot.
func (s *State) Suppliers() []models.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Supplier(nil), s.suppliers...)
}

// RegistryNames returns the registry's supplier names, for feeding the
// summary computation.
func (s *State) RegistryNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collection.Map(s.suppliers, func(sup models.Supplier) string { return sup.Name })
}

// Subscribe registers a snapshot stream consumer. The returned channel
// immediately carries one event per collection (the current state) and then
// every future snapshot. cancel must be called when the consumer goes away.
func (s *State) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subBuffer)

	s.mu.RLock()
	initial := []Event{
		{Collection: store.Products, Data: s.products},
		{Collection: store.Returns, Data: s.returns},
		{Collection: store.SupplierPhotos, Data: s.photos},
		{Collection: store.Suppliers, Data: s.suppliers},
	}
	s.mu.RUnlock()
	for _, ev := range initial {
		ch <- ev
	}

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *State) publish(collectionName string, data any) {
	metrics.SnapshotsPublished.WithLabelValues(collectionName).Inc()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- Event{Collection: collectionName, Data: data}:
		default:
			// Subscriber is behind; it will catch up on the next snapshot.
		}
	}
}
