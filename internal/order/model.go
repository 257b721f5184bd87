// Package order stores booking orders and exposes the administrative
// operations over them. Field names keep the Spanish vocabulary of the
// booking form and the printed order template.
package order

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mtcolectivo/backend-colectivo/internal/template"
)

// Order is a booking order as persisted and served to clients.
//
// Monetary fields obey two derived invariants which every mutation
// re-establishes before persisting:
//
//	total    = subtotal - descuento
//	liquidar = total - abonado
type Order struct {
	ID         uuid.UUID `json:"id"`
	Nombre     string    `json:"nombre"`
	Fecha      string    `json:"fecha"`
	DirSalida  string    `json:"dir_salida"`
	DirDestino string    `json:"dir_destino"`
	HorIda     string    `json:"hor_ida"`
	HorRegreso string    `json:"hor_regreso"`
	Duracion   float64   `json:"duracion"`
	Capacidadu int       `json:"capacidadu"`
	Subtotal   float64   `json:"subtotal"`
	Descuento  float64   `json:"descuento"`
	Total      float64   `json:"total"`
	Abonado    float64   `json:"abonado"`
	FechaAbono string    `json:"fecha_abono"`
	Liquidar   float64   `json:"liquidar"`
	CreatedAt  time.Time `json:"created_at"`
}

// TemplateMapping builds the token mapping used to fill the printed order
// document. Monetary values are rendered with two decimals.
func (o Order) TemplateMapping() *template.Mapping {
	m := template.NewMapping()
	m.Set("NOMBRE", o.Nombre)
	m.Set("FECHA", o.Fecha)
	m.Set("DIR_SALIDA", o.DirSalida)
	m.Set("DIR_DESTINO", o.DirDestino)
	m.Set("HOR_IDA", o.HorIda)
	m.Set("HOR_REGRESO", o.HorRegreso)
	m.Set("DURACION", strconv.FormatFloat(o.Duracion, 'f', 1, 64))
	m.Set("CAPACIDADU", strconv.Itoa(o.Capacidadu))
	m.Set("SUBTOTAL", template.Money(o.Subtotal))
	m.Set("DESCUENTO", template.Money(o.Descuento))
	m.Set("ABONADO", template.Money(o.Abonado))
	m.Set("FECHA_ABONO", o.FechaAbono)
	m.Set("TOTAL", template.Money(o.Total))
	m.Set("LIQUIDAR", template.Money(o.Liquidar))
	return m
}
