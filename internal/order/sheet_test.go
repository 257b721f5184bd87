package order

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, header, data []any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	if data != nil {
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &data))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadSheetRecord(t *testing.T) {
	t.Parallel()
	buf := buildSheet(t,
		[]any{"NOMBRE", "FECHA", "TOTAL", "ABONADO"},
		[]any{"Maria", "2024-06-02", "$4,500.00", "500"},
	)

	rec, err := ReadSheetRecord(buf)
	require.NoError(t, err)
	require.Equal(t, "Maria", rec["NOMBRE"])
	require.Equal(t, "$4,500.00", rec["TOTAL"])
	require.Equal(t, "500", rec["ABONADO"])
}

func TestReadSheetRecordAcceptsHeaderAliases(t *testing.T) {
	t.Parallel()
	buf := buildSheet(t,
		[]any{"Cliente", "Destino", "hora ida", "&SUBTOTAL&"},
		[]any{"Luis", "Cantaritos", "10:00 am", "2250"},
	)

	rec, err := ReadSheetRecord(buf)
	require.NoError(t, err)
	require.Equal(t, "Luis", rec["NOMBRE"])
	require.Equal(t, "Cantaritos", rec["DIR_DESTINO"])
	require.Equal(t, "10:00 am", rec["HOR_IDA"])
	require.Equal(t, "2250", rec["SUBTOTAL"])
}

func TestReadSheetRecordRejectsEmptySheet(t *testing.T) {
	t.Parallel()

	buf := buildSheet(t, []any{"NOMBRE"}, nil)
	_, err := ReadSheetRecord(buf)
	require.Error(t, err)

	_, err = ReadSheetRecord(bytes.NewReader([]byte("not a zip")))
	require.Error(t, err)
}

func TestReadSheetRecordRejectsUnknownHeaders(t *testing.T) {
	t.Parallel()
	buf := buildSheet(t, []any{"foo", "bar"}, []any{"1", "2"})
	_, err := ReadSheetRecord(buf)
	require.Error(t, err)
}
