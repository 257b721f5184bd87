package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mtcolectivo/backend-colectivo/internal/common"
	"github.com/mtcolectivo/backend-colectivo/internal/order"
)

// maxSheetUpload bounds spreadsheet uploads at 10 MiB.
const maxSheetUpload = 10 << 20

// Handler exposes the document rendering HTTP endpoints.
type Handler struct {
	Service *Service
}

// FromData handles POST /api/v1/pdf/from-data: fill and render a document
// straight from JSON values without persisting an order.
func (h *Handler) FromData(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	pdf, err := h.Service.RenderMapping(r.Context(), MappingFromValues(values))
	if err != nil {
		h.Service.Logger.Error().Err(err).Msg("render from data failed")
		common.JSONError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render document", nil)
		return
	}
	writePDF(w, pdf, "orden.pdf")
}

// FromSheet handles POST /api/v1/pdf/from-excel: import the first row of the
// uploaded spreadsheet as a new order and return its rendered document.
func (h *Handler) FromSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSheetUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "missing spreadsheet upload", nil)
		return
	}
	defer file.Close()

	record, err := order.ReadSheetRecord(file)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "could not read spreadsheet", nil)
		return
	}
	created, err := h.Service.Orders.CreateFromRecord(r.Context(), record)
	if err != nil {
		common.WriteAppError(w, err, "could not create order from spreadsheet")
		return
	}
	pdf, err := h.Service.RenderMapping(r.Context(), created.TemplateMapping())
	if err != nil {
		h.Service.Logger.Error().Err(err).Str("order_id", created.ID.String()).Msg("render from sheet failed")
		common.JSONError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render document", nil)
		return
	}
	w.Header().Set("X-Order-Id", created.ID.String())
	writePDF(w, pdf, fmt.Sprintf("orden-%s.pdf", created.ID))
}

// OrderPDF handles GET /api/v1/orders/{orderId}/pdf.
func (h *Handler) OrderPDF(w http.ResponseWriter, r *http.Request) {
	id, err := order.ParseID(chi.URLParam(r, "orderId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	pdf, err := h.Service.RenderOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		h.Service.Logger.Error().Err(err).Str("order_id", id.String()).Msg("render order failed")
		common.JSONError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render document", nil)
		return
	}
	writePDF(w, pdf, fmt.Sprintf("orden-%s.pdf", id))
}

func writePDF(w http.ResponseWriter, pdf []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
