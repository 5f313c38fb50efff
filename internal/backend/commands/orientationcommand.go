package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
)

const (
	orientationPortrait  = "portrait"
	orientationLandscape = "landscape"
)

type OrientationParams struct {
	Orientation string
	Clockwise   bool
}

func NewOrientationParamsFromMap(params map[string]any) (*OrientationParams, error) {
	p := &OrientationParams{
		Orientation: strings.ToLower(commandstructure.GetStringParam(params, "orientation", orientationLandscape)),
		Clockwise:   commandstructure.GetBoolParam(params, "clockwise", true),
	}
	switch p.Orientation {
	case orientationPortrait, orientationLandscape:
		return p, nil
	default:
		return nil, fmt.Errorf("invalid orientation %q, expected %s or %s", p.Orientation, orientationPortrait, orientationLandscape)
	}
}

// OrientationCommand turns frames from a camera mounted sideways by a quarter turn.
// 1D readers scan rows, so a vertical barcode is only readable once it lies horizontally.
type OrientationCommand struct {
	params *OrientationParams
}

func NewOrientationCommand(params map[string]any) (commandstructure.Command, error) {
	p, err := NewOrientationParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &OrientationCommand{params: p}, nil
}

func (c *OrientationCommand) Name() string {
	return "OrientationCommand"
}

// Execute leaves square frames and frames already in the target orientation alone
func (c *OrientationCommand) Execute(img image.Image) (image.Image, error) {
	size := img.Bounds().Size()
	if size.X == size.Y || (size.Y > size.X) == (c.params.Orientation == orientationPortrait) {
		return img, nil
	}

	slog.Debug("OrientationCommand: quarter turn",
		"width", size.X,
		"height", size.Y,
		"clockwise", c.params.Clockwise)
	return quarterTurn(img, c.params.Clockwise), nil
}

// quarterTurn keeps grayscale frames grayscale and renders everything else to RGBA
func quarterTurn(img image.Image, clockwise bool) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	target := func(x, y int) (int, int) {
		if clockwise {
			return h - 1 - y, x
		}
		return y, w - 1 - x
	}

	if gray, ok := img.(*image.Gray); ok {
		out := image.NewGray(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				tx, ty := target(x, y)
				out.SetGray(tx, ty, gray.GrayAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return out
	}

	out := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tx, ty := target(x, y)
			out.SetRGBA(tx, ty, color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA))
		}
	}
	return out
}

func (c *OrientationCommand) GetOrientation() string {
	return c.params.Orientation
}
