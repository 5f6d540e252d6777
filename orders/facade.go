package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/storepilot/storepilot/contract"
	shopifyx "github.com/storepilot/storepilot/pkg/shopify"
	storex "github.com/storepilot/storepilot/store"
)

// Status is the local payment state of a tracked order.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
)

// Placeholder customer and shipping defaults, used whenever the caller
// omits a field. This is the documented demo behavior: real customer data
// collection is out of scope.
var defaultCustomer = CustomerInfo{
	FirstName: "Guest",
	LastName:  "Customer",
	Email:     "guest@example.com",
	Address:   "1 Demo Street",
	City:      "Tel Aviv",
	Country:   "Israel",
	Zip:       "0000000",
}

const listingLimit = 250

// CustomerInfo is the caller-supplied customer and shipping detail. Every
// field is optional.
type CustomerInfo struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
}

// Record tracks one order placed through the gateway, keyed by a locally
// minted tracking id so payment status stays decoupled from the upstream
// store's own order id. Records live for the process lifetime.
type Record struct {
	TrackingID          string     `json:"tracking_id"`
	UpstreamOrderID     int64      `json:"order_id"`
	UpstreamOrderNumber int64      `json:"order_number"`
	StoreID             string     `json:"store_id"`
	StoreName           string     `json:"store_name"`
	ProductTitle        string     `json:"product_title"`
	Quantity            int        `json:"quantity"`
	CustomerName        string     `json:"customer_name"`
	Total               string     `json:"total"`
	Currency            string     `json:"currency"`
	Status              Status     `json:"status"`
	PaymentMethod       string     `json:"payment_method,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
}

// Facade resolves a product+store+quantity into an upstream order and
// tracks its local payment state.
type Facade struct {
	registry *storex.Registry

	mu      sync.RWMutex
	records map[string]*Record

	now func() time.Time
}

func NewFacade(registry *storex.Registry) *Facade {
	return &Facade{
		registry: registry,
		records:  make(map[string]*Record),
		now:      time.Now,
	}
}

// CreateOrder places an order for productID at the given store. The product
// is located in a bounded listing of the store's catalog; its first variant
// is the orderable unit (multi-variant selection is out of scope). Missing
// customer fields are filled with the documented placeholder defaults.
func (f *Facade) CreateOrder(ctx context.Context, storeID, productID string, quantity int, info *CustomerInfo) (Record, error) {
	handle, err := f.registry.Get(storeID)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(productID) == "" {
		return Record{}, fmt.Errorf("%w: product id is required", contractx.ErrValidation)
	}
	if quantity <= 0 {
		quantity = 1
	}

	product, err := f.locateProduct(ctx, handle, productID)
	if err != nil {
		return Record{}, err
	}
	if len(product.Variants) == 0 {
		return Record{}, fmt.Errorf("%w: product %s has no orderable variant", contractx.ErrValidation, productID)
	}
	variant := product.Variants[0]

	filled := fillDefaults(info)
	draft := shopifyx.OrderDraft{
		VariantID: variant.ID,
		Quantity:  quantity,
		Customer: shopifyx.Customer{
			FirstName: filled.FirstName,
			LastName:  filled.LastName,
			Email:     filled.Email,
			Phone:     filled.Phone,
		},
		ShippingAddress: shopifyx.Address{
			Address1: filled.Address,
			City:     filled.City,
			Country:  filled.Country,
			Zip:      filled.Zip,
			Phone:    filled.Phone,
		},
		Note: "Placed via storepilot gateway",
	}

	upstream, err := handle.Client.CreateOrder(ctx, draft)
	if err != nil {
		return Record{}, err
	}

	record := &Record{
		TrackingID:          uuid.NewString(),
		UpstreamOrderID:     upstream.ID,
		UpstreamOrderNumber: upstream.OrderNumber,
		StoreID:             handle.ID,
		StoreName:           handle.DisplayName,
		ProductTitle:        product.Title,
		Quantity:            quantity,
		CustomerName:        strings.TrimSpace(filled.FirstName + " " + filled.LastName),
		Total:               upstream.TotalPrice,
		Currency:            upstream.Currency,
		Status:              StatusPendingPayment,
		CreatedAt:           f.now().UTC(),
	}

	f.mu.Lock()
	f.records[record.TrackingID] = record
	f.mu.Unlock()

	log.Info().
		Str("tracking_id", record.TrackingID).
		Int64("order_id", record.UpstreamOrderID).
		Str("store_id", handle.ID).
		Msg("order created")

	return *record, nil
}

// Get returns the tracked record for a tracking id.
func (f *Facade) Get(trackingID string) (Record, error) {
	f.mu.RLock()
	record, ok := f.records[trackingID]
	f.mu.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: order %s", contractx.ErrNotFound, trackingID)
	}
	return *record, nil
}

// MarkPaid transitions a tracked order to paid, simulating payment
// completion. Calling it again is allowed and idempotent: the status stays
// paid and PaidAt is re-stamped.
func (f *Facade) MarkPaid(trackingID, method string) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[trackingID]
	if !ok {
		return Record{}, fmt.Errorf("%w: order %s", contractx.ErrNotFound, trackingID)
	}

	paidAt := f.now().UTC()
	record.Status = StatusPaid
	record.PaidAt = &paidAt
	if strings.TrimSpace(method) != "" {
		record.PaymentMethod = strings.TrimSpace(method)
	}

	log.Info().Str("tracking_id", trackingID).Str("method", record.PaymentMethod).Msg("order marked paid")
	return *record, nil
}

func (f *Facade) locateProduct(ctx context.Context, handle *storex.Handle, productID string) (*shopifyx.Product, error) {
	if id, err := strconv.ParseInt(productID, 10, 64); err == nil {
		if product, err := handle.Client.GetProduct(ctx, id); err == nil && product != nil && product.ID == id {
			return product, nil
		}
	}

	// Fall back to scanning a bounded listing, for stores where the direct
	// fetch is unavailable for draft products.
	products, err := handle.Client.ListProducts(ctx, listingLimit)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if strconv.FormatInt(products[i].ID, 10) == productID {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: product %s in store %s", contractx.ErrNotFound, productID, handle.ID)
}

func fillDefaults(info *CustomerInfo) CustomerInfo {
	filled := defaultCustomer
	if info == nil {
		return filled
	}
	if v := strings.TrimSpace(info.FirstName); v != "" {
		filled.FirstName = v
	}
	if v := strings.TrimSpace(info.LastName); v != "" {
		filled.LastName = v
	}
	if v := strings.TrimSpace(info.Email); v != "" {
		filled.Email = v
	}
	if v := strings.TrimSpace(info.Phone); v != "" {
		filled.Phone = v
	}
	if v := strings.TrimSpace(info.Address); v != "" {
		filled.Address = v
	}
	if v := strings.TrimSpace(info.City); v != "" {
		filled.City = v
	}
	if v := strings.TrimSpace(info.Country); v != "" {
		filled.Country = v
	}
	if v := strings.TrimSpace(info.Zip); v != "" {
		filled.Zip = v
	}
	return filled
}
