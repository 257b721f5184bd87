// Package render converts filled DOCX documents to PDF using a headless
// LibreOffice process.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 60 * time.Second

// Converter shells out to the soffice binary for DOCX to PDF conversion.
type Converter struct {
	Bin     string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewConverter constructs a Converter with defaults applied.
func NewConverter(bin string, timeout time.Duration, logger zerolog.Logger) *Converter {
	if strings.TrimSpace(bin) == "" {
		bin = "soffice"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Converter{Bin: bin, Timeout: timeout, Logger: logger}
}

// ConvertToPDF renders the given DOCX bytes to PDF. Each invocation uses a
// private scratch directory so concurrent conversions cannot clash on
// LibreOffice lock files.
func (c *Converter) ConvertToPDF(ctx context.Context, docx []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "colectivo-render-*")
	if err != nil {
		return nil, fmt.Errorf("render: create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "order.docx")
	if err := os.WriteFile(input, docx, 0o600); err != nil {
		return nil, fmt.Errorf("render: write input document: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := c.Bin
	if strings.TrimSpace(bin) == "" {
		bin = "soffice"
	}
	cmd := exec.CommandContext(ctx, bin,
		"--headless", "--nologo", "--nolockcheck",
		"--convert-to", "pdf", "--outdir", dir, input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		c.Logger.Error().
			Err(err).
			Str("bin", bin).
			Str("stderr", strings.TrimSpace(stderr.String())).
			Msg("pdf conversion failed")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("render: conversion timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("render: soffice: %w", err)
	}

	output := filepath.Join(dir, "order.pdf")
	pdf, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("render: read converted output: %w", err)
	}
	c.Logger.Debug().
		Int("pdf_bytes", len(pdf)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("pdf conversion finished")
	return pdf, nil
}
