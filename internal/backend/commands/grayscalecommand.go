package commands

import (
	"image"
	"log/slog"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// GrayscaleCommand converts a frame to a single luminance channel
type GrayscaleCommand struct {
	name string
}

// NewGrayscaleCommand creates a new grayscale command; it takes no parameters
func NewGrayscaleCommand(params map[string]any) (commandstructure.Command, error) {
	return NewGrayscaleCommandDirect(), nil
}

// NewGrayscaleCommandDirect creates a new grayscale command without a params map
func NewGrayscaleCommandDirect() *GrayscaleCommand {
	return &GrayscaleCommand{name: "GrayscaleCommand"}
}

// Name returns the command name
func (c *GrayscaleCommand) Name() string {
	return c.name
}

// Execute returns the frame as *image.Gray
func (c *GrayscaleCommand) Execute(img image.Image) (image.Image, error) {
	return ToGray(img), nil
}

// ToGray converts img to *image.Gray. Other models are redrawn anchored at the origin;
// gray input, including an offset crop, is returned as is since gozxing honours Bounds.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)

	slog.Debug("GrayscaleCommand: converted frame",
		"width", bounds.Dx(),
		"height", bounds.Dy())
	return gray
}
