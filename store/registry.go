package store

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/contract"
	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
)

// Client is the per-store capability the registry hands out. The production
// implementation is *shopify.Client; tests substitute fakes.
type Client interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]shopifyx.Product, error)
	ListProducts(ctx context.Context, limit int) ([]shopifyx.Product, error)
	GetProduct(ctx context.Context, id int64) (*shopifyx.Product, error)
	ListOrders(ctx context.Context, limit int, status string) ([]shopifyx.Order, error)
	CreateOrder(ctx context.Context, draft shopifyx.OrderDraft) (*shopifyx.Order, error)
	Ping(ctx context.Context) error
}

var _ Client = (*shopifyx.Client)(nil)

// Handle is one registered store. Immutable after Connect; rotating a
// credential means disconnecting and connecting again.
type Handle struct {
	ID          string
	DisplayName string
	BaseURL     string
	Client      Client
	CreatedAt   time.Time

	token string
}

// Info is the credential-free view of a Handle.
type Info struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// Dialer builds a Client for a store config. Overridable for tests.
type Dialer func(cfg shopifyx.Config) (Client, error)

// Option customizes a Registry.
type Option func(*Registry)

func WithDialer(dial Dialer) Option {
	return func(r *Registry) {
		if dial != nil {
			r.dial = dial
		}
	}
}

// Registry holds every connected store for the process lifetime. Safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Handle
	dial   Dialer
	now    func() time.Time
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		stores: make(map[string]*Handle),
		dial: func(cfg shopifyx.Config) (Client, error) {
			return shopifyx.NewClient(cfg)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Connect registers a store and returns its handle. A failed validation
// ping is logged but does not block registration, since upstream
// availability may be transient. Duplicate URLs are allowed: each Connect
// yields an independent handle.
func (r *Registry) Connect(ctx context.Context, displayName, rawURL, token string) (*Handle, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: store url is required", contractx.ErrValidation)
	}

	client, err := r.dial(shopifyx.Config{URL: rawURL, Token: strings.TrimSpace(token)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	if err := client.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("store_url", rawURL).Msg("store validation ping failed, registering anyway")
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = hostLabel(rawURL)
	}

	handle := &Handle{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		BaseURL:     rawURL,
		Client:      client,
		CreatedAt:   r.now().UTC(),
		token:       strings.TrimSpace(token),
	}

	r.mu.Lock()
	r.stores[handle.ID] = handle
	r.mu.Unlock()

	log.Info().Str("store_id", handle.ID).Str("store", handle.DisplayName).Msg("store connected")
	return handle, nil
}

// Get returns the handle for id or ErrNotFound.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	handle, ok := r.stores[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: store %s", contractx.ErrNotFound, id)
	}
	return handle, nil
}

// List returns credential-free store infos ordered by connection time.
func (r *Registry) List() []Info {
	r.mu.RLock()
	handles := make([]*Handle, 0, len(r.stores))
	for _, h := range r.stores {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	sort.Slice(handles, func(i, j int) bool {
		if handles[i].CreatedAt.Equal(handles[j].CreatedAt) {
			return handles[i].ID < handles[j].ID
		}
		return handles[i].CreatedAt.Before(handles[j].CreatedAt)
	})

	infos := make([]Info, 0, len(handles))
	for _, h := range handles {
		infos = append(infos, Info{ID: h.ID, DisplayName: h.DisplayName, URL: h.BaseURL})
	}
	return infos
}

// Handles returns a snapshot of every registered handle, in List order.
func (r *Registry) Handles() []*Handle {
	r.mu.RLock()
	handles := make([]*Handle, 0, len(r.stores))
	for _, h := range r.stores {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	sort.Slice(handles, func(i, j int) bool {
		if handles[i].CreatedAt.Equal(handles[j].CreatedAt) {
			return handles[i].ID < handles[j].ID
		}
		return handles[i].CreatedAt.Before(handles[j].CreatedAt)
	})
	return handles
}

// Len reports how many stores are connected.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// DisconnectAll drops every registered store.
func (r *Registry) DisconnectAll() {
	r.mu.Lock()
	r.stores = make(map[string]*Handle)
	r.mu.Unlock()
}

func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil && u.Host != "" {
		return strings.TrimSuffix(u.Host, ".myshopify.com")
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSuffix(trimmed, ".myshopify.com")
}
