package template

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// documentPath is the archive entry holding the document body.
const documentPath = "word/document.xml"

// ReadDocument extracts the body markup from a DOCX archive.
func ReadDocument(docx []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	for _, entry := range reader.File {
		if entry.Name != documentPath {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPath, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", documentPath, err)
		}
		return string(raw), nil
	}
	return "", fmt.Errorf("docx has no %s entry", documentPath)
}

// RebuildDocument writes a new DOCX archive with the body markup replaced and
// every other entry copied through unchanged.
func RebuildDocument(original []byte, updatedXML string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(original), int64(len(original)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	for _, entry := range reader.File {
		header := entry.FileHeader
		w, err := writer.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", entry.Name, err)
		}
		if entry.Name == documentPath {
			if _, err := w.Write([]byte(updatedXML)); err != nil {
				return nil, fmt.Errorf("write %s: %w", entry.Name, err)
			}
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("copy %s: %w", entry.Name, err)
		}
		rc.Close()
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return out.Bytes(), nil
}

// FillDocument fills a DOCX template with the mapping and returns the rebuilt
// archive.
func FillDocument(docx []byte, m *Mapping) ([]byte, error) {
	xml, err := ReadDocument(docx)
	if err != nil {
		return nil, err
	}
	return RebuildDocument(docx, Fill(xml, m))
}
