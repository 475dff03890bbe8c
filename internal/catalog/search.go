package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/raynott/storefront/internal/backend"
	"github.com/raynott/storefront/internal/models"
)

var Categories = []string{"All", "Audio", "Gaming", "Smartwatch", "Accessories"}

type PriceRange struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

var PriceRanges = []PriceRange{
	{Label: "All Prices", Min: 0, Max: backend.PriceMaxOpen},
	{Label: "$0 - $100", Min: 0, Max: 100},
	{Label: "$100 - $500", Min: 100, Max: 500},
	{Label: "$500+", Min: 500, Max: backend.PriceMaxOpen},
}

// PriceRangeByLabel resolves a label to its range; unknown labels fall back
// to "All Prices".
func PriceRangeByLabel(label string) PriceRange {
	for _, r := range PriceRanges {
		if r.Label == label {
			return r
		}
	}
	return PriceRanges[0]
}

// Filters is the listing filter state: free text, one category, one price range.
type Filters struct {
	Search   string     `json:"search"`
	Category string     `json:"category"`
	Price    PriceRange `json:"price"`
}

func (f Filters) backendFilters() backend.ProductFilters {
	return backend.ProductFilters{
		Search:   f.Search,
		Category: f.Category,
		PriceMin: f.Price.Min,
		PriceMax: f.Price.Max,
	}
}

// Searcher fetches the product list for one session's filters. Filter changes
// are debounced; every dispatch carries a monotonic sequence number and a
// response is applied to the snapshot only while it is still the latest
// dispatch, so a slow early request can never overwrite a later one.
type Searcher struct {
	Backend *backend.Client
	Delay   time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	filters  Filters
	products []models.Product
	err      error
	loaded   bool
}

func NewSearcher(client *backend.Client, delay time.Duration) *Searcher {
	return &Searcher{
		Backend: client,
		Delay:   delay,
		filters: Filters{Category: "All", Price: PriceRanges[0]},
	}
}

// Search dispatches immediately and returns the fetched list. The shared
// snapshot is only updated when this request is still the newest one.
func (s *Searcher) Search(ctx context.Context, token string, f Filters) ([]models.Product, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.filters = f
	s.mu.Unlock()

	products, err := s.Backend.ListProducts(ctx, token, f.backendFilters())
	s.apply(seq, products, err)
	return products, err
}

// Schedule records the new filter state and arms the debounce timer,
// cancelling any pending fire. The fetch happens after the quiet period.
func (s *Searcher) Schedule(token string, f Filters) {
	s.mu.Lock()
	s.filters = f
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.Delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, _ = s.Search(ctx, token, f)
	})
	s.mu.Unlock()
}

// Snapshot is the last applied listing state of a session.
type Snapshot struct {
	Products []models.Product
	Filters  Filters
	Err      error
	Loaded   bool
}

// Snapshot returns the last applied result set, the current filters, and
// whether a fetch has completed yet.
func (s *Searcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return Snapshot{Products: out, Filters: s.filters, Err: s.err, Loaded: s.loaded}
}

func (s *Searcher) apply(seq uint64, products []models.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stale response: a newer request was dispatched while this one ran.
	if seq != s.seq {
		return
	}
	s.products = products
	s.err = err
	s.loaded = true
}

// Store hands out one Searcher per session ID.
type Store struct {
	mu        sync.Mutex
	searchers map[string]*Searcher

	Backend *backend.Client
	Delay   time.Duration
}

func NewStore(client *backend.Client, delay time.Duration) *Store {
	return &Store{
		searchers: make(map[string]*Searcher),
		Backend:   client,
		Delay:     delay,
	}
}

func (s *Store) Get(sessionID string) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.searchers[sessionID]
	if !ok {
		sr = NewSearcher(s.Backend, s.Delay)
		s.searchers[sessionID] = sr
	}
	return sr
}
