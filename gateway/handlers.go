package gateway

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	assistantx "github.com/storepilot/storepilot/assistant"
	contractx "github.com/storepilot/storepilot/contract"
	ordersx "github.com/storepilot/storepilot/orders"
	searchx "github.com/storepilot/storepilot/search"
	storex "github.com/storepilot/storepilot/store"
)

type connectRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	URL         string `json:"url"`
	Credential  string `json:"credential"`
}

type connectResponse struct {
	StoreID string `json:"store_id"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	handle, err := s.registry.Connect(r.Context(), req.DisplayName, req.URL, req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connectResponse{StoreID: handle.ID})
}

type listStoresResponse struct {
	Stores []storex.Info `json:"stores"`
}

func (s *Server) handleListStores(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listStoresResponse{Stores: s.registry.List()})
}

const storeOrdersLimit = 50

// handleListStoreOrders proxies a bounded recent-orders listing from one
// upstream store.
func (s *Server) handleListStoreOrders(w http.ResponseWriter, r *http.Request) {
	handle, err := s.registry.Get(r.PathValue("storeID"))
	if err != nil {
		writeError(w, err)
		return
	}

	upstream, err := handle.Client.ListOrders(r.Context(), storeOrdersLimit, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": upstream})
}

type searchRequest struct {
	Query   string `json:"query"`
	StoreID string `json:"store_id,omitempty"`
}

type searchResponse struct {
	Products   []contractx.ScoredProduct `json:"products"`
	AIResponse string                    `json:"ai_response,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !s.requireStores(w) {
		return
	}

	var products []contractx.Product
	if storeID := strings.TrimSpace(req.StoreID); storeID != "" {
		handle, err := s.registry.Get(storeID)
		if err != nil {
			writeError(w, err)
			return
		}
		products, err = s.aggregator.SearchStore(r.Context(), req.Query, handle)
		if err != nil {
			// Search degrades rather than failing: an unreachable store
			// yields an empty result set, not a 5xx.
			log.Warn().Err(err).Str("store_id", storeID).Msg("single-store search failed")
			products = []contractx.Product{}
		}
	} else {
		products = s.aggregator.Search(r.Context(), req.Query, s.registry)
	}

	stats := searchx.Stats(products, s.registry.Len())
	aiResponse := s.dispatcher.Respond(r.Context(), req.Query, products, stats)

	writeJSON(w, http.StatusOK, searchResponse{
		Products:   searchx.ScoreDeals(products),
		AIResponse: aiResponse,
	})
}

type compareRequest struct {
	SearchTerm string `json:"search_term"`
}

type compareResponse struct {
	Comparison map[string]searchx.StoreComparison `json:"comparison"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !s.requireStores(w) {
		return
	}

	comparison := s.aggregator.Compare(r.Context(), req.SearchTerm, s.registry)
	writeJSON(w, http.StatusOK, compareResponse{Comparison: comparison})
}

type createOrderRequest struct {
	ProductID    string                `json:"product_id"`
	StoreID      string                `json:"store_id"`
	Quantity     int                   `json:"quantity"`
	CustomerInfo *ordersx.CustomerInfo `json:"customer_info,omitempty"`
}

type createOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber int64  `json:"order_number"`
	TrackingID  string `json:"tracking_id"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	CheckoutURL string `json:"checkout_url"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !s.requireStores(w) {
		return
	}

	record, err := s.facade.CreateOrder(r.Context(), req.StoreID, req.ProductID, req.Quantity, req.CustomerInfo)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		OrderID:     record.UpstreamOrderID,
		OrderNumber: record.UpstreamOrderNumber,
		TrackingID:  record.TrackingID,
		Total:       record.Total,
		Currency:    record.Currency,
		CheckoutURL: "/checkout/" + record.TrackingID,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	record, err := s.facade.Get(r.PathValue("trackingID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type payOrderRequest struct {
	Method string `json:"method"`
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	var req payOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	record, err := s.facade.MarkPaid(r.PathValue("trackingID"), req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetAIConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Masked())
}

type saveAIConfigRequest struct {
	Provider string                         `json:"provider"`
	Model    string                         `json:"model,omitempty"`
	Keys     map[assistantx.Provider]string `json:"keys,omitempty"`
}

func (s *Server) handleSaveAIConfig(w http.ResponseWriter, r *http.Request) {
	var req saveAIConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.settings.Save(assistantx.Provider(req.Provider), req.Model, req.Keys); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.settings.Masked())
}

type testAIRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key"`
}

type testAIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleTestAI(w http.ResponseWriter, r *http.Request) {
	var req testAIRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ok, message := s.dispatcher.Test(r.Context(), assistantx.Provider(req.Provider), req.Model, req.APIKey)
	resp := testAIResponse{Success: ok}
	if ok {
		resp.Message = message
	} else {
		resp.Error = message
	}
	writeJSON(w, http.StatusOK, resp)
}
