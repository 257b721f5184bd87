// Package template fills the order document template. Placeholders in the
// DOCX body have the shape &NAME& and are replaced with order field values;
// the filler tolerates the word processor splitting a placeholder across
// adjacent text runs.
package template

import (
	"fmt"
	"strings"
)

// Vocabulary is the fixed set of placeholder names understood by the order
// template, in substitution order.
var Vocabulary = []string{
	"NOMBRE",
	"FECHA",
	"DIR_SALIDA",
	"DIR_DESTINO",
	"HOR_IDA",
	"HOR_REGRESO",
	"DURACION",
	"CAPACIDADU",
	"SUBTOTAL",
	"DESCUENTO",
	"ABONADO",
	"FECHA_ABONO",
	"TOTAL",
	"LIQUIDAR",
}

// Mapping is an ordered token-to-value map. Substitution follows insertion
// order so repeated fills are deterministic.
type Mapping struct {
	names  []string
	values map[string]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set stores a value for a token name. Names are case-insensitive and kept in
// first-insertion order.
func (m *Mapping) Set(name, value string) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if _, exists := m.values[key]; !exists {
		m.names = append(m.names, key)
	}
	m.values[key] = value
}

// Get returns the value stored for a token name.
func (m *Mapping) Get(name string) (string, bool) {
	v, ok := m.values[strings.ToUpper(strings.TrimSpace(name))]
	return v, ok
}

// Names returns the token names in insertion order.
func (m *Mapping) Names() []string {
	return m.names
}

// Money formats a monetary value the way the template expects: exactly two
// decimal places, no grouping.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
