package scanner

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

const (
	barcodeWidth  = 400
	barcodeHeight = 120
)

// encodeBarcode renders contents with a gozxing writer into a frame
func encodeBarcode(t *testing.T, writer gozxing.Writer, format gozxing.BarcodeFormat, contents string) image.Image {
	t.Helper()
	matrix, err := writer.Encode(contents, format, barcodeWidth, barcodeHeight, nil)
	if err != nil {
		t.Fatalf("failed to encode %s barcode: %v", format, err)
	}
	return matrix
}

func code128Image(t *testing.T, contents string) image.Image {
	t.Helper()
	return encodeBarcode(t, oned.NewCode128Writer(), gozxing.BarcodeFormat_CODE_128, contents)
}

func toJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

func blankJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	return toJPEG(t, img)
}

// rotateClockwise turns a landscape fixture into the frame a sideways camera would send
func rotateClockwise(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(b.Dy()-1-y, x, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return out
}
