package contract

// Product is one store's offer for a catalog item, as seen by the
// aggregate search. IDs are store-local: the same id from two different
// stores refers to two independent offers.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Vendor      string `json:"vendor,omitempty"`
	ProductType string `json:"product_type,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	StoreID     string `json:"store_id"`
	StoreName   string `json:"store_name"`
	StoreLabel  string `json:"store_label,omitempty"`
}

// ScoredProduct is a Product annotated with a relative deal score in [0,1].
type ScoredProduct struct {
	Product
	DealScore float64 `json:"deal_score"`
}

// StoreStats summarizes the aggregation that produced a result set. It is
// what the assistant interpolates into its replies.
type StoreStats struct {
	StoreCount   int     `json:"store_count"`
	ProductCount int     `json:"product_count"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}
