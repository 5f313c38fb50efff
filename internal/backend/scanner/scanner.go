package scanner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/jo-hoe/barcoderelay/internal/backend/commands"
	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
	"github.com/makiuchi-d/gozxing"

	_ "image/jpeg"
	_ "image/png"
)

// Detection is a barcode found in a frame
type Detection struct {
	Text   string
	Format Symbology
}

// FrameInfo describes a frame without running the recognizer
type FrameInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Scanner turns an encoded frame into a detection.
// A nil detection with a nil error means no barcode was found.
type Scanner interface {
	Scan(ctx context.Context, frame []byte) (*Detection, error)
}

// Options configures a BarcodeScanner
type Options struct {
	Symbologies []Symbology
	TryHarder   bool
	Commands    []commandstructure.CommandConfig
	// Registry resolves Commands; nil means commandstructure.DefaultRegistry
	Registry *commandstructure.CommandRegistry
}

// BarcodeScanner decodes frames with gozxing using a fixed, ordered reader set.
// Each scan runs on the calling goroutine.
type BarcodeScanner struct {
	symbologies []Symbology
	tryHarder   bool
	invoker     *commandstructure.CommandInvoker
}

// NewBarcodeScanner validates the reader set and builds the preprocessing pipeline
func NewBarcodeScanner(options Options) (*BarcodeScanner, error) {
	symbologies := options.Symbologies
	if len(symbologies) == 0 {
		symbologies = DefaultSymbologies
	}
	for _, symbology := range symbologies {
		if _, err := symbology.newReader(); err != nil {
			return nil, err
		}
	}

	registry := options.Registry
	if registry == nil {
		registry = commandstructure.DefaultRegistry
	}
	invoker, err := commandstructure.NewCommandInvokerFromConfig(registry, options.Commands)
	if err != nil {
		return nil, fmt.Errorf("invalid preprocessing configuration: %w", err)
	}

	return &BarcodeScanner{
		symbologies: append([]Symbology(nil), symbologies...),
		tryHarder:   options.TryHarder,
		invoker:     invoker,
	}, nil
}

// Symbologies returns the configured reader order
func (s *BarcodeScanner) Symbologies() []Symbology {
	return append([]Symbology(nil), s.symbologies...)
}

// Scan decodes the frame and tries every configured reader in order.
// Image processing failures are logged and reported as not found; only a
// cancelled context is returned as an error.
func (s *BarcodeScanner) Scan(ctx context.Context, frame []byte) (detection *Detection, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage := "decode"
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scanner: scan pipeline panicked",
				"stage", stage,
				"error", fmt.Sprint(r),
				"input_size_bytes", len(frame))
			detection, err = nil, nil
		}
	}()

	start := time.Now()

	img, format, decodeErr := image.Decode(bytes.NewReader(frame))
	if decodeErr != nil {
		slog.Warn("scanner: failed to decode frame", "error", decodeErr, "input_size_bytes", len(frame))
		return nil, nil
	}

	stage = "preprocess"
	processed, procErr := s.invoker.Execute(ctx, img)
	if procErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Warn("scanner: preprocessing failed", "error", procErr)
		return nil, nil
	}
	stage = "recognize"
	gray := commands.ToGray(processed)

	bitmap, bmpErr := gozxing.NewBinaryBitmapFromImage(gray)
	if bmpErr != nil {
		slog.Warn("scanner: failed to build binary bitmap", "error", bmpErr)
		return nil, nil
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if s.tryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	for _, symbology := range s.symbologies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reader, readerErr := symbology.newReader()
		if readerErr != nil {
			return nil, readerErr
		}
		result, readErr := reader.Decode(bitmap, hints)
		if readErr != nil {
			slog.Debug("scanner: reader found nothing", "symbology", symbology, "error", readErr)
			continue
		}

		// Code 39 may carry meaningful leading or trailing spaces
		text := result.GetText()
		if strings.TrimSpace(text) == "" {
			continue
		}

		found := symbologyFromFormat(result.GetBarcodeFormat(), symbology)
		slog.Info("scanner: barcode decoded",
			"symbology", found,
			"source_format", format,
			"width", gray.Bounds().Dx(),
			"height", gray.Bounds().Dy(),
			"duration_ms", time.Since(start).Milliseconds())
		return &Detection{Text: text, Format: found}, nil
	}

	slog.Debug("scanner: no barcode in frame",
		"source_format", format,
		"duration_ms", time.Since(start).Milliseconds())
	return nil, nil
}

// Inspect reads only the image header of the frame
func Inspect(frame []byte) (*FrameInfo, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &FrameInfo{
		Width:  config.Width,
		Height: config.Height,
		Format: format,
	}, nil
}
