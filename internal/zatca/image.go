package zatca

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultQRSize is the edge length in pixels of rendered QR images
const DefaultQRSize = 256

// RenderQR renders payload as a square 8-bit grayscale PNG QR code,
// error correction level M
func RenderQR(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrMissingField(0, "qr payload")
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}

	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr to %dpx: %w", size, err)
	}

	// barcode scales into 16-bit gray, which the PDF backend cannot embed
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("failed to write png: %w", err)
	}
	return buf.Bytes(), nil
}
