// Package document renders filled order documents. It joins the template
// filler with the PDF converter and exposes the document HTTP endpoints.
package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtcolectivo/backend-colectivo/internal/common"
	"github.com/mtcolectivo/backend-colectivo/internal/obs"
	"github.com/mtcolectivo/backend-colectivo/internal/order"
	"github.com/mtcolectivo/backend-colectivo/internal/pricing"
	"github.com/mtcolectivo/backend-colectivo/internal/render"
	"github.com/mtcolectivo/backend-colectivo/internal/template"
)

// Converter abstracts the PDF conversion step.
type Converter interface {
	ConvertToPDF(ctx context.Context, docx []byte) ([]byte, error)
}

var _ Converter = (*render.Converter)(nil)

// Service renders order documents from the configured DOCX template.
type Service struct {
	Template  []byte
	Converter Converter
	Orders    *order.Service
	Logger    zerolog.Logger
}

// LoadTemplate reads the order template from disk.
func LoadTemplate(path string) ([]byte, error) {
	docx, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read template %s: %w", path, err)
	}
	return docx, nil
}

// RenderMapping fills the template with the mapping and converts it to PDF.
func (s *Service) RenderMapping(ctx context.Context, m *template.Mapping) ([]byte, error) {
	filled, err := template.FillDocument(s.Template, m)
	if err != nil {
		countRender("fill_error")
		return nil, err
	}
	pdf, err := s.Converter.ConvertToPDF(ctx, filled)
	if err != nil {
		countRender("convert_error")
		return nil, err
	}
	countRender("ok")
	return pdf, nil
}

// RenderOrder renders the stored order with the given id.
func (s *Service) RenderOrder(ctx context.Context, id uuid.UUID) ([]byte, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderMapping(ctx, o.TemplateMapping())
}

// MappingFromValues builds a substitution mapping from loose key/value pairs,
// typically a JSON body. Keys are matched against the template vocabulary
// case-insensitively. Monetary inputs pass through the tolerant parser and
// TOTAL/LIQUIDAR are always derived from them, so the rendered document
// keeps total = subtotal - descuento and liquidar = total - abonado even
// when the payload carries stale figures. A TOTAL value stands in for a
// missing SUBTOTAL, matching older payloads. Every vocabulary name is
// mapped; absent ones get the empty string so no placeholder survives in
// the output.
func MappingFromValues(values map[string]string) *template.Mapping {
	lookup := make(map[string]string, len(values))
	for k, v := range values {
		lookup[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	if _, ok := lookup["SUBTOTAL"]; !ok {
		if v, ok := lookup["TOTAL"]; ok {
			lookup["SUBTOTAL"] = v
		}
	}

	balance := pricing.Recompute(
		common.ParseMoney(lookup["SUBTOTAL"]),
		common.ParseMoney(lookup["DESCUENTO"]),
		common.ParseMoney(lookup["ABONADO"]),
	)

	m := template.NewMapping()
	for _, name := range template.Vocabulary {
		switch name {
		case "SUBTOTAL":
			m.Set(name, template.Money(balance.Subtotal))
		case "DESCUENTO":
			m.Set(name, template.Money(balance.Discount))
		case "TOTAL":
			m.Set(name, template.Money(balance.Total))
		case "ABONADO":
			m.Set(name, template.Money(balance.Paid))
		case "LIQUIDAR":
			m.Set(name, template.Money(balance.Due))
		default:
			m.Set(name, strings.TrimSpace(lookup[name]))
		}
	}
	return m
}

func countRender(result string) {
	if obs.DocumentsRenderedTotal != nil {
		obs.DocumentsRenderedTotal.WithLabelValues(result).Inc()
	}
}
