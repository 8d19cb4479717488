// Package imaging downscales photo evidence before it is persisted.
//
// The pipeline mirrors what the mobile-web UI does on capture: decode,
// cap the longer side at 800px preserving the aspect ratio exactly, and
// re-encode as JPEG at quality 60 wrapped in a data URI. Exact output bytes
// depend on the codec and are not contractual; the dimension capping is.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"
)

// ErrMedia marks unprocessable image payloads (bad base64, unknown codec,
// truncated data). Callers map it to a client error rather than a server
// failure.
var ErrMedia = errors.New("imaging: unprocessable image")

const (
	// MaxSide is the cap applied to the longer image dimension.
	MaxSide = 800
	// Quality is the JPEG re-encode quality factor (0.6 on a 0–1 scale).
	Quality = 60
)

// Downscale decodes raw image bytes, resizes them within the MaxSide cap,
// and returns the result as a "data:image/jpeg;base64,…" string suitable
// for embedding in a stored document.
//
// Decode or encode failures abort the operation; no partial image is
// produced.
func Downscale(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrMedia, err)
	}

	bounds := src.Bounds()
	w, h := targetSize(bounds.Dx(), bounds.Dy())

	dst := resize(src, w, h)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("imaging: encode: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// targetSize caps the longer side at MaxSide, scaling the other side to
// preserve the aspect ratio. Dimensions already within the cap are returned
// untouched.
func targetSize(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}

	if w > h {
		if w > MaxSide {
			h = int(math.Round(float64(h) * MaxSide / float64(w)))
			w = MaxSide
		}
	} else {
		if h > MaxSide {
			w = int(math.Round(float64(w) * MaxSide / float64(h)))
			h = MaxSide
		}
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// resize scales src to w×h with bilinear interpolation.
func resize(src image.Image, w, h int) *image.RGBA {
	bounds := src.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		// No scaling needed; normalize to RGBA for the encoder.
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}

	// Normalize the source first so pixel access is uniform.
	norm := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(norm, norm.Bounds(), src, bounds.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	xRatio := float64(bounds.Dx()-1) / float64(max(w-1, 1))
	yRatio := float64(bounds.Dy()-1) / float64(max(h-1, 1))

	for y := 0; y < h; y++ {
		sy := float64(y) * yRatio
		y0 := int(sy)
		y1 := min(y0+1, bounds.Dy()-1)
		fy := sy - float64(y0)

		for x := 0; x < w; x++ {
			sx := float64(x) * xRatio
			x0 := int(sx)
			x1 := min(x0+1, bounds.Dx()-1)
			fx := sx - float64(x0)

			di := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				p00 := float64(norm.Pix[norm.PixOffset(x0, y0)+c])
				p10 := float64(norm.Pix[norm.PixOffset(x1, y0)+c])
				p01 := float64(norm.Pix[norm.PixOffset(x0, y1)+c])
				p11 := float64(norm.Pix[norm.PixOffset(x1, y1)+c])

				top := p00 + (p10-p00)*fx
				bottom := p01 + (p11-p01)*fx
				dst.Pix[di+c] = uint8(math.Round(top + (bottom-top)*fy))
			}
		}
	}

	return dst
}
