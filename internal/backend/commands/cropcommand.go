package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// CropParams is the size of the region of interest, centered in the frame
type CropParams struct {
	Width  int
	Height int
}

func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"width", "height"}); err != nil {
		return nil, err
	}
	p := &CropParams{
		Width:  commandstructure.GetIntParam(params, "width", 0),
		Height: commandstructure.GetIntParam(params, "height", 0),
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("crop region must be positive, got %dx%d", p.Width, p.Height)
	}
	return p, nil
}

// CropCommand keeps only the middle of the frame, where an aimed camera puts the barcode.
// Background clutter outside the region slows the recognizer down.
type CropCommand struct {
	params *CropParams
}

func NewCropCommand(params map[string]any) (commandstructure.Command, error) {
	p, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &CropCommand{params: p}, nil
}

func (c *CropCommand) Name() string {
	return "CropCommand"
}

// subImager is implemented by the concrete types image/jpeg and image/png decode to
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (c *CropCommand) Execute(img image.Image) (image.Image, error) {
	frame := img.Bounds()
	region := centeredRegion(frame, c.params.Width, c.params.Height)
	if region == frame {
		return img, nil
	}

	slog.Debug("CropCommand: cropping to region of interest",
		"frame", frame.String(),
		"region", region.String())

	if s, ok := img.(subImager); ok {
		return s.SubImage(region), nil
	}
	out := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(out, out.Bounds(), img, region.Min, draw.Src)
	return out, nil
}

// centeredRegion clamps the requested size to the frame and centers it
func centeredRegion(frame image.Rectangle, width, height int) image.Rectangle {
	width = min(width, frame.Dx())
	height = min(height, frame.Dy())
	origin := frame.Min.Add(image.Pt((frame.Dx()-width)/2, (frame.Dy()-height)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(width, height))}
}

func (c *CropCommand) GetParams() *CropParams {
	return c.params
}
