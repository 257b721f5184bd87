package template

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entries := map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   body,
		"word/styles.xml":     `<w:styles/>`,
	}
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readEntry(t *testing.T, docx []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, entry := range r.File {
		if entry.Name != name {
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(raw)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestFillDocument(t *testing.T) {
	t.Parallel()

	docx := buildDocx(t, `<w:body><w:r><w:t>Orden de &amp;NOMBRE&amp;</w:t></w:r></w:body>`)

	m := NewMapping()
	m.Set("NOMBRE", "Carlos")

	filled, err := FillDocument(docx, m)
	require.NoError(t, err)

	body := readEntry(t, filled, "word/document.xml")
	require.Contains(t, body, "Orden de Carlos")

	// Sibling entries survive the rebuild untouched.
	require.Equal(t, `<w:styles/>`, readEntry(t, filled, "word/styles.xml"))
	require.Equal(t, `<Types/>`, readEntry(t, filled, "[Content_Types].xml"))
}

func TestReadDocumentMissingEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:styles/>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = ReadDocument(buf.Bytes())
	require.Error(t, err)
}

func TestReadDocumentRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ReadDocument([]byte("not a zip"))
	require.Error(t, err)
}
