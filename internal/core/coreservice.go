package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/barcoderelay/internal/backend/resultstore"
	"github.com/jo-hoe/barcoderelay/internal/backend/scanner"
	"golang.org/x/sync/semaphore"
)

// ErrNoImageData is returned for frames without a body
var ErrNoImageData = errors.New("no image data received")

// Outcome classifies a processed frame
type Outcome int

const (
	// OutcomeDecoded means a barcode was found and became the latest result
	OutcomeDecoded Outcome = iota
	// OutcomeNotFound means the frame was processed but no barcode was recognized
	OutcomeNotFound
	// OutcomeThrottled means the frame arrived inside the cooldown window
	OutcomeThrottled
	// OutcomeDuplicate means the barcode equals the latest result inside the duplicate window
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDecoded:
		return "decoded"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeThrottled:
		return "throttled"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FrameResult is what ProcessFrame reports back to the transport layer
type FrameResult struct {
	Outcome   Outcome
	Detection *scanner.Detection
	Result    resultstore.ScanResult
}

type CoreService struct {
	scanner     scanner.Scanner
	store       resultstore.ResultStore
	decodeSlots *semaphore.Weighted
	now         func() time.Time
}

// Option overrides a collaborator of the CoreService
type Option func(*CoreService)

// WithScanner replaces the gozxing scanner
func WithScanner(s scanner.Scanner) Option {
	return func(service *CoreService) {
		service.scanner = s
	}
}

// WithResultStore replaces the store built from configuration
func WithResultStore(store resultstore.ResultStore) Option {
	return func(service *CoreService) {
		service.store = store
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(service *CoreService) {
		service.now = now
	}
}

func NewCoreService(config *ServiceConfig, opts ...Option) (*CoreService, error) {
	service := &CoreService{
		decodeSlots: semaphore.NewWeighted(int64(max(1, config.DecodeWorkers))),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.scanner == nil {
		barcodeScanner, err := newBarcodeScanner(config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize scanner: %w", err)
		}
		service.scanner = barcodeScanner
	}

	if service.store == nil {
		store, err := resultstore.NewResultStore(config.ResultStore.Type, resultstore.Windows{
			Cooldown:  config.Cooldown(),
			Duplicate: config.DuplicateWindow(),
		}, service.now())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize result store: %w", err)
		}
		service.store = store
	}

	return service, nil
}

func newBarcodeScanner(config *ServiceConfig) (*scanner.BarcodeScanner, error) {
	symbologies, err := scanner.ParseSymbologies(config.Symbologies)
	if err != nil {
		return nil, err
	}
	barcodeScanner, err := scanner.NewBarcodeScanner(scanner.Options{
		Symbologies: symbologies,
		TryHarder:   config.TryHarder,
		Commands:    config.Commands,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("scanner initialized",
		"symbologies", symbologies,
		"try_harder", config.TryHarder,
		"preprocessing_commands", len(config.Commands))
	return barcodeScanner, nil
}

// ProcessFrame runs the ingest algorithm for one uploaded frame: reject empty frames,
// honour the cooldown, decode inside a decode slot and commit a found barcode.
// Only a successful commit changes shared state.
func (service *CoreService) ProcessFrame(ctx context.Context, frame []byte) (*FrameResult, error) {
	now := service.now()

	if len(frame) == 0 {
		return nil, ErrNoImageData
	}

	if service.store.CooldownActive(now) {
		slog.Info("scan ignored (cooldown active)")
		return service.throttled(), nil
	}

	if err := service.decodeSlots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire decode slot: %w", err)
	}
	// a frame queued behind a successful decode must not be decoded again
	if service.store.CooldownActive(now) {
		service.decodeSlots.Release(1)
		slog.Info("scan ignored (cooldown active)")
		return service.throttled(), nil
	}
	detection, err := service.scanner.Scan(ctx, frame)
	service.decodeSlots.Release(1)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	if detection == nil {
		return &FrameResult{Outcome: OutcomeNotFound, Result: service.store.Latest()}, nil
	}

	result, err := service.store.Commit(detection.Text, now)
	switch {
	case errors.Is(err, resultstore.ErrCooldownActive):
		slog.Info("decoded barcode discarded (cooldown active)", "data", detection.Text)
		return &FrameResult{Outcome: OutcomeThrottled, Detection: detection, Result: result}, nil
	case errors.Is(err, resultstore.ErrDuplicateScan):
		slog.Info("decoded barcode discarded (duplicate)", "data", detection.Text)
		return &FrameResult{Outcome: OutcomeDuplicate, Detection: detection, Result: result}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to store scan result: %w", err)
	}

	slog.Info("barcode decoded", "data", detection.Text, "format", detection.Format)
	return &FrameResult{Outcome: OutcomeDecoded, Detection: detection, Result: result}, nil
}

func (service *CoreService) throttled() *FrameResult {
	return &FrameResult{Outcome: OutcomeThrottled, Result: service.store.Latest()}
}

// LatestResult returns the most recent committed scan or the initial placeholder
func (service *CoreService) LatestResult() resultstore.ScanResult {
	return service.store.Latest()
}

// InspectFrame reports the dimensions and format of a frame without decoding barcodes
func (service *CoreService) InspectFrame(frame []byte) (*scanner.FrameInfo, error) {
	if len(frame) == 0 {
		return nil, ErrNoImageData
	}
	return scanner.Inspect(frame)
}

func (service *CoreService) Close() error {
	return service.store.Close()
}
