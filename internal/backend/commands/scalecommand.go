package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// ScaleParams represents typed parameters for scale command.
// A zero bound means the dimension is unconstrained.
type ScaleParams struct {
	MaxWidth  int
	MaxHeight int
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	maxWidth := commandstructure.GetIntParam(params, "maxWidth", 0)
	maxHeight := commandstructure.GetIntParam(params, "maxHeight", 0)

	if maxWidth < 0 {
		return nil, fmt.Errorf("maxWidth must not be negative, got %d", maxWidth)
	}
	if maxHeight < 0 {
		return nil, fmt.Errorf("maxHeight must not be negative, got %d", maxHeight)
	}
	if maxWidth == 0 && maxHeight == 0 {
		return nil, fmt.Errorf("at least one of maxWidth or maxHeight must be set")
	}

	return &ScaleParams{
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
	}, nil
}

// ScaleCommand shrinks oversized frames so recognizer time stays bounded
type ScaleCommand struct {
	name   string
	params *ScaleParams
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ScaleCommand{
		name:   "ScaleCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute downscales the frame to fit the configured bounds, keeping the aspect ratio.
// Frames that already fit are returned untouched.
func (c *ScaleCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot scale empty frame %dx%d", width, height)
	}

	targetWidth, targetHeight := fitWithin(width, height, c.params.MaxWidth, c.params.MaxHeight)
	if targetWidth == width && targetHeight == height {
		return img, nil
	}

	slog.Debug("ScaleCommand: downscaling frame",
		"orig_width", width,
		"orig_height", height,
		"target_width", targetWidth,
		"target_height", targetHeight)

	var dst draw.Image
	if _, ok := img.(*image.Gray); ok {
		dst = image.NewGray(image.Rect(0, 0, targetWidth, targetHeight))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst, nil
}

// fitWithin returns the largest size not exceeding the bounds with the same aspect ratio.
// It never upscales.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	scale := 1.0
	if maxWidth > 0 && width > maxWidth {
		scale = min(scale, float64(maxWidth)/float64(width))
	}
	if maxHeight > 0 && height > maxHeight {
		scale = min(scale, float64(maxHeight)/float64(height))
	}
	if scale == 1.0 {
		return width, height
	}
	return max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale))
}

// GetParams returns the typed parameters
func (c *ScaleCommand) GetParams() *ScaleParams {
	return c.params
}
