package order

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerAliases maps spreadsheet column headings to canonical record keys.
// Staff sheets have drifted over the years, so a few spellings are accepted.
var headerAliases = map[string]string{
	"NOMBRE":       "NOMBRE",
	"CLIENTE":      "NOMBRE",
	"FECHA":        "FECHA",
	"DIR_SALIDA":   "DIR_SALIDA",
	"SALIDA":       "DIR_SALIDA",
	"DIR_DESTINO":  "DIR_DESTINO",
	"DESTINO":      "DIR_DESTINO",
	"HOR_IDA":      "HOR_IDA",
	"HORA_IDA":     "HOR_IDA",
	"HOR_REGRESO":  "HOR_REGRESO",
	"HORA_REGRESO": "HOR_REGRESO",
	"DURACION":     "DURACION",
	"CAPACIDADU":   "CAPACIDADU",
	"CAPACIDAD":    "CAPACIDADU",
	"SUBTOTAL":     "SUBTOTAL",
	"DESCUENTO":    "DESCUENTO",
	"TOTAL":        "TOTAL",
	"ABONADO":      "ABONADO",
	"FECHA_ABONO":  "FECHA_ABONO",
	"LIQUIDAR":     "LIQUIDAR",
}

// ReadSheetRecord reads the first data row of an uploaded spreadsheet and
// returns it keyed by canonical column name. Only the first sheet and the
// first row under the header are consulted.
func ReadSheetRecord(r io.Reader) (map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("order: open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("order: spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("order: read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("order: spreadsheet has no data row")
	}

	header := rows[0]
	data := rows[1]
	record := make(map[string]string, len(header))
	for i, raw := range header {
		key, ok := headerAliases[normalizeHeader(raw)]
		if !ok {
			continue
		}
		if i < len(data) {
			record[key] = strings.TrimSpace(data[i])
		}
	}
	if len(record) == 0 {
		return nil, fmt.Errorf("order: no recognized columns in header row")
	}
	return record, nil
}

func normalizeHeader(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	return strings.Trim(cleaned, "&")
}
