package shopify

// Wire types for the Shopify Admin REST API. Only the fields the gateway
// reads are mapped; everything else is dropped on decode.

type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Status      string    `json:"status"`
	Variants    []Variant `json:"variants"`
	Image       *Image    `json:"image"`
	Images      []Image   `json:"images"`
}

type Variant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	SKU       string `json:"sku"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// FirstPrice returns the price of the product's first variant, or "" when
// the product has no variants.
func (p Product) FirstPrice() string {
	if len(p.Variants) == 0 {
		return ""
	}
	return p.Variants[0].Price
}

// ImageSrc returns the primary image URL, falling back to the first entry
// of the images list.
func (p Product) ImageSrc() string {
	if p.Image != nil && p.Image.Src != "" {
		return p.Image.Src
	}
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}

type Order struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	OrderNumber     int64      `json:"order_number"`
	TotalPrice      string     `json:"total_price"`
	Currency        string     `json:"currency"`
	FinancialStatus string     `json:"financial_status"`
	CreatedAt       string     `json:"created_at"`
	LineItems       []LineItem `json:"line_items"`
	Customer        *Customer  `json:"customer,omitempty"`
}

type LineItem struct {
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Title     string `json:"title,omitempty"`
	Price     string `json:"price,omitempty"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
	Phone    string `json:"phone,omitempty"`
}

// OrderDraft is the payload for creating an order: a single variant line
// plus customer and shipping details.
type OrderDraft struct {
	VariantID       int64
	Quantity        int
	Customer        Customer
	ShippingAddress Address
	Note            string
}

type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
