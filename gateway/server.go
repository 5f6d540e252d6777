package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	assistantx "github.com/storepilot/storepilot/assistant"
	contractx "github.com/storepilot/storepilot/contract"
	ordersx "github.com/storepilot/storepilot/orders"
	searchx "github.com/storepilot/storepilot/search"
	storex "github.com/storepilot/storepilot/store"
)

const maxRequestBodyBytes = 1 << 20

// Config is the HTTP listener configuration.
type Config struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8080"`
}

// Server routes the external HTTP surface to the registry, aggregator,
// assistant, and order facade. It holds no state of its own.
type Server struct {
	registry   *storex.Registry
	aggregator *searchx.Aggregator
	settings   *assistantx.Settings
	dispatcher *assistantx.Dispatcher
	facade     *ordersx.Facade

	mux *http.ServeMux
}

func NewServer(
	registry *storex.Registry,
	aggregator *searchx.Aggregator,
	settings *assistantx.Settings,
	dispatcher *assistantx.Dispatcher,
	facade *ordersx.Facade,
) *Server {
	s := &Server{
		registry:   registry,
		aggregator: aggregator,
		settings:   settings,
		dispatcher: dispatcher,
		facade:     facade,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /connect", s.handleConnect)
	s.mux.HandleFunc("GET /stores", s.handleListStores)
	s.mux.HandleFunc("GET /stores/{storeID}/orders", s.handleListStoreOrders)

	s.mux.HandleFunc("POST /search", s.handleSearch)
	s.mux.HandleFunc("POST /compare", s.handleCompare)

	s.mux.HandleFunc("POST /orders", s.handleCreateOrder)
	s.mux.HandleFunc("GET /orders/{trackingID}", s.handleGetOrder)
	s.mux.HandleFunc("POST /orders/{trackingID}/pay", s.handlePayOrder)
	s.mux.HandleFunc("GET /checkout/{trackingID}", s.handleCheckout)

	s.mux.HandleFunc("GET /ai/config", s.handleGetAIConfig)
	s.mux.HandleFunc("POST /ai/config", s.handleSaveAIConfig)
	s.mux.HandleFunc("POST /ai/test", s.handleTestAI)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// handleHealth is the liveness probe. It must answer without touching any
// upstream dependency.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", contractx.ErrValidation, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contractx.ErrValidation), errors.Is(err, contractx.ErrNotConfigured):
		status = http.StatusBadRequest
	case errors.Is(err, contractx.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, contractx.ErrUpstream):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// requireStores guards store-dependent endpoints: with nothing connected
// they answer with a configuration-required error instead of empty results
// or nil dereferences.
func (s *Server) requireStores(w http.ResponseWriter) bool {
	if s.registry.Len() == 0 {
		writeError(w, fmt.Errorf("%w: no stores connected; POST /connect first", contractx.ErrNotConfigured))
		return false
	}
	return true
}
