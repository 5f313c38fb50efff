package commands

import (
	"image"
	"image/color"
	"testing"

	"github.com/jo-hoe/barcoderelay/internal/backend/commandstructure"
)

func newRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCommands_RegisteredInDefaultRegistry(t *testing.T) {
	for _, name := range []string{"GrayscaleCommand", "ScaleCommand", "CropCommand", "OrientationCommand"} {
		if !commandstructure.DefaultRegistry.IsRegistered(name) {
			t.Errorf("Expected %s to be registered in DefaultRegistry", name)
		}
	}
}

func TestGrayscaleCommand_Execute(t *testing.T) {
	command, err := NewGrayscaleCommand(nil)
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	src := newRGBA(4, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{A: 255})

	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", out)
	}
	if gray.Bounds().Dx() != 4 || gray.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3, got %v", gray.Bounds())
	}
	if gray.GrayAt(0, 0).Y != 255 || gray.GrayAt(1, 1).Y != 0 {
		t.Errorf("Unexpected luminance values: %d %d", gray.GrayAt(0, 0).Y, gray.GrayAt(1, 1).Y)
	}
}

func TestToGray_OffsetBounds(t *testing.T) {
	src := newRGBA(10, 10, color.RGBA{A: 255})
	src.SetRGBA(5, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	sub := src.SubImage(image.Rect(5, 5, 8, 8))

	gray := ToGray(sub)
	if gray.Bounds().Min != (image.Point{}) {
		t.Errorf("Expected bounds anchored at origin, got %v", gray.Bounds())
	}
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("Expected white pixel at origin, got %d", gray.GrayAt(0, 0).Y)
	}
}

func TestToGray_GrayPassThrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	if ToGray(src) != src {
		t.Error("Expected gray input to be returned as is")
	}

	// a cropped gray frame keeps its offset origin
	sub := image.NewGray(image.Rect(0, 0, 8, 8)).SubImage(image.Rect(2, 2, 6, 6)).(*image.Gray)
	if got := ToGray(sub); got != sub || got.Bounds().Min != image.Pt(2, 2) {
		t.Errorf("Expected gray sub-image to pass through with bounds %v, got %v", sub.Bounds(), got.Bounds())
	}
}

func TestNewScaleCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"width only", map[string]any{"maxWidth": 800}, false},
		{"height only", map[string]any{"maxHeight": 600}, false},
		{"both", map[string]any{"maxWidth": 800, "maxHeight": 600}, false},
		{"none", map[string]any{}, true},
		{"negative", map[string]any{"maxWidth": -1, "maxHeight": 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewScaleCommand(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewScaleCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			params := command.(*ScaleCommand).GetParams()
			if params.MaxWidth != commandstructure.GetIntParam(tt.params, "maxWidth", 0) ||
				params.MaxHeight != commandstructure.GetIntParam(tt.params, "maxHeight", 0) {
				t.Errorf("Unexpected params %+v for %v", params, tt.params)
			}
		})
	}
}

func TestScaleCommand_Execute(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]any
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{"fits already", map[string]any{"maxWidth": 800, "maxHeight": 600}, 640, 480, 640, 480},
		{"width bound", map[string]any{"maxWidth": 800}, 1600, 1200, 800, 600},
		{"height bound", map[string]any{"maxHeight": 300}, 1600, 1200, 400, 300},
		{"tighter bound wins", map[string]any{"maxWidth": 1000, "maxHeight": 300}, 1600, 1200, 400, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewScaleCommand(tt.params)
			if err != nil {
				t.Fatalf("Failed to create command: %v", err)
			}
			out, err := command.Execute(image.NewGray(image.Rect(0, 0, tt.srcW, tt.srcH)))
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, out.Bounds().Dx(), out.Bounds().Dy())
			}
		})
	}
}

func TestScaleCommand_KeepsGrayModel(t *testing.T) {
	command, err := NewScaleCommand(map[string]any{"maxWidth": 10})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	out, err := command.Execute(image.NewGray(image.Rect(0, 0, 100, 50)))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if _, ok := out.(*image.Gray); !ok {
		t.Errorf("Expected *image.Gray output, got %T", out)
	}
}

func TestNewCropCommand_MissingParams(t *testing.T) {
	if _, err := NewCropCommand(map[string]any{"width": 10}); err == nil {
		t.Error("Expected error for missing height")
	}
	if _, err := NewCropCommand(map[string]any{"width": 10, "height": 0}); err == nil {
		t.Error("Expected error for zero height")
	}
}

func TestCropCommand_Execute_CenterCrop(t *testing.T) {
	src := newRGBA(9, 9, color.RGBA{A: 255})
	src.SetRGBA(4, 4, color.RGBA{R: 255, A: 255})

	command, err := NewCropCommand(map[string]any{"width": 3, "height": 3})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	if params := command.(*CropCommand).GetParams(); params.Width != 3 || params.Height != 3 {
		t.Fatalf("Expected 3x3 params, got %+v", params)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Bounds().Dx() != 3 || out.Bounds().Dy() != 3 {
		t.Fatalf("Expected 3x3, got %v", out.Bounds())
	}
	center := out.Bounds().Min.Add(image.Pt(1, 1))
	r, _, _, _ := out.At(center.X, center.Y).RGBA()
	if r>>8 != 255 {
		t.Errorf("Expected center pixel to be red after crop, got r=%d", r>>8)
	}
}

func TestCropCommand_Execute_LargerThanFrame(t *testing.T) {
	src := newRGBA(4, 4, color.RGBA{A: 255})
	command, err := NewCropCommand(map[string]any{"width": 10, "height": 10})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != image.Image(src) {
		t.Error("Expected frame to be returned unchanged")
	}
}

func TestNewOrientationCommand(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		expected string
		wantErr  bool
	}{
		{"Portrait orientation", map[string]any{"orientation": "portrait"}, "portrait", false},
		{"Landscape orientation", map[string]any{"orientation": "landscape"}, "landscape", false},
		{"Default orientation", map[string]any{}, "landscape", false},
		{"Mixed case orientation", map[string]any{"orientation": " Portrait "}, "portrait", false},
		{"Invalid orientation", map[string]any{"orientation": "diagonal"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewOrientationCommand(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			orientationCmd, ok := command.(*OrientationCommand)
			if !ok {
				t.Fatal("Expected command to be *OrientationCommand")
			}
			if orientationCmd.GetOrientation() != tt.expected {
				t.Errorf("Expected orientation '%s', got '%s'", tt.expected, orientationCmd.GetOrientation())
			}
		})
	}
}

func TestOrientationCommand_RotatesPortraitToLandscape(t *testing.T) {
	// 2 wide, 3 tall; red marker top-left
	src := newRGBA(2, 3, color.RGBA{A: 255})
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	tests := []struct {
		name      string
		clockwise bool
		markerX   int
		markerY   int
	}{
		{"clockwise", true, 2, 0},
		{"counterclockwise", false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewOrientationCommand(map[string]any{"orientation": "landscape", "clockwise": tt.clockwise})
			if err != nil {
				t.Fatalf("Failed to create command: %v", err)
			}
			out, err := command.Execute(src)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if out.Bounds().Dx() != 3 || out.Bounds().Dy() != 2 {
				t.Fatalf("Expected 3x2 after rotation, got %v", out.Bounds())
			}
			r, _, _, _ := out.At(tt.markerX, tt.markerY).RGBA()
			if r>>8 != 255 {
				t.Errorf("Expected red marker at (%d,%d)", tt.markerX, tt.markerY)
			}
		})
	}
}

func TestOrientationCommand_NoRotationNeeded(t *testing.T) {
	command, err := NewOrientationCommand(map[string]any{"orientation": "landscape"})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	for _, src := range []image.Image{newRGBA(4, 2, color.RGBA{}), newRGBA(3, 3, color.RGBA{})} {
		out, err := command.Execute(src)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out != src {
			t.Errorf("Expected %v frame to be returned unchanged", src.Bounds())
		}
	}
}

func TestCropCommand_Execute_WithoutSubImage(t *testing.T) {
	// image.Uniform has no SubImage, so the region is copied
	src := &image.Uniform{C: color.RGBA{G: 255, A: 255}}
	command, err := NewCropCommand(map[string]any{"width": 5, "height": 2})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 5, 2) {
		t.Fatalf("Expected 5x2 at origin, got %v", out.Bounds())
	}
}

func TestOrientationCommand_KeepsGrayModel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 4))
	src.SetGray(0, 0, color.Gray{Y: 255})

	command, err := NewOrientationCommand(map[string]any{"orientation": "landscape"})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}
	out, err := command.Execute(src)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", out)
	}
	if gray.GrayAt(3, 0).Y != 255 {
		t.Errorf("Expected marker at (3,0) after clockwise turn")
	}
}
