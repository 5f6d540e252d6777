package gateway

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	ordersx "github.com/storepilot/storepilot/orders"
)

//go:embed checkout.html
var checkoutHTML string

var checkoutTmpl = template.Must(template.New("checkout").Parse(checkoutHTML))

type checkoutPage struct {
	Record ordersx.Record
	Paid   bool
}

// handleCheckout renders the generated checkout page for a tracked order.
// Payment completion is simulated: the page posts back to the pay endpoint.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	record, err := s.facade.Get(r.PathValue("trackingID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := checkoutPage{Record: record, Paid: record.Status == ordersx.StatusPaid}
	if err := checkoutTmpl.Execute(w, page); err != nil {
		log.Error().Err(err).Str("tracking_id", record.TrackingID).Msg("render checkout page failed")
	}
}
