package scanner

import (
	"fmt"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Symbology identifies a barcode encoding standard the scanner can be asked to read
type Symbology string

const (
	Code128 Symbology = "code_128"
	EAN13   Symbology = "ean_13"
	EAN8    Symbology = "ean_8"
	UPCA    Symbology = "upc_a"
	UPCE    Symbology = "upc_e"
	Code39  Symbology = "code_39"
	QRCode  Symbology = "qr_code"
)

// DefaultSymbologies is the reader set used when none is configured
var DefaultSymbologies = []Symbology{Code128, EAN13, EAN8, UPCA, UPCE, Code39}

// symbologyAliases maps configuration names onto one or more symbologies.
// Group names and the *_reader spellings used by camera firmware configs are accepted.
var symbologyAliases = map[string][]Symbology{
	"code_128":        {Code128},
	"code128":         {Code128},
	"code_128_reader": {Code128},
	"ean":             {EAN13, EAN8},
	"ean_reader":      {EAN13, EAN8},
	"ean_13":          {EAN13},
	"ean13":           {EAN13},
	"ean_8":           {EAN8},
	"ean8":            {EAN8},
	"ean_8_reader":    {EAN8},
	"upc":             {UPCA, UPCE},
	"upc_reader":      {UPCA, UPCE},
	"upc_a":           {UPCA},
	"upc_e":           {UPCE},
	"upc_e_reader":    {UPCE},
	"code_39":         {Code39},
	"code39":          {Code39},
	"code_39_reader":  {Code39},
	"qr":              {QRCode},
	"qr_code":         {QRCode},
	"qrcode":          {QRCode},
}

// ParseSymbologies resolves configured names to an ordered, de-duplicated symbology list.
// An empty input yields DefaultSymbologies.
func ParseSymbologies(names []string) ([]Symbology, error) {
	if len(names) == 0 {
		return append([]Symbology(nil), DefaultSymbologies...), nil
	}

	seen := make(map[Symbology]bool)
	result := make([]Symbology, 0, len(names))
	for _, name := range names {
		resolved, ok := symbologyAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unsupported symbology: %q", name)
		}
		for _, symbology := range resolved {
			if !seen[symbology] {
				seen[symbology] = true
				result = append(result, symbology)
			}
		}
	}
	return result, nil
}

// newReader returns a fresh gozxing reader. Readers keep per-decode state, so one is built per scan.
func (s Symbology) newReader() (gozxing.Reader, error) {
	switch s {
	case Code128:
		return oned.NewCode128Reader(), nil
	case EAN13:
		return oned.NewEAN13Reader(), nil
	case EAN8:
		return oned.NewEAN8Reader(), nil
	case UPCA:
		return oned.NewUPCAReader(), nil
	case UPCE:
		return oned.NewUPCEReader(), nil
	case Code39:
		return oned.NewCode39Reader(), nil
	case QRCode:
		return qrcode.NewQRCodeReader(), nil
	default:
		return nil, fmt.Errorf("unsupported symbology: %q", string(s))
	}
}

// symbologyFromFormat maps a gozxing result format back onto the enumeration
func symbologyFromFormat(format gozxing.BarcodeFormat, fallback Symbology) Symbology {
	switch format {
	case gozxing.BarcodeFormat_CODE_128:
		return Code128
	case gozxing.BarcodeFormat_EAN_13:
		return EAN13
	case gozxing.BarcodeFormat_EAN_8:
		return EAN8
	case gozxing.BarcodeFormat_UPC_A:
		return UPCA
	case gozxing.BarcodeFormat_UPC_E:
		return UPCE
	case gozxing.BarcodeFormat_CODE_39:
		return Code39
	case gozxing.BarcodeFormat_QR_CODE:
		return QRCode
	default:
		return fallback
	}
}
