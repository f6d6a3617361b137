// Package imaging turns uploaded images into the PNG data URLs carried by
// UPDATE_IMAGE messages.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// DataURLPrefix starts every encoded preview.
const DataURLPrefix = "data:image/png;base64,"

// Decode reads a PNG, JPEG or GIF image and reports its format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Fit returns the size of b scaled down so its longest side is at most maxDim,
// keeping the aspect ratio. maxDim <= 0 or an image already small enough keeps
// the original size.
func Fit(b image.Rectangle, maxDim int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return image.Rect(0, 0, w, h)
	}
	if w >= h {
		return image.Rect(0, 0, maxDim, max(1, h*maxDim/w))
	}
	return image.Rect(0, 0, max(1, w*maxDim/h), maxDim)
}

// Scale downsizes img to fit within maxDim.
func Scale(img image.Image, maxDim int) image.Image {
	dst := Fit(img.Bounds(), maxDim)
	if dst.Dx() == img.Bounds().Dx() && dst.Dy() == img.Bounds().Dy() {
		return img
	}
	scaled := image.NewRGBA(dst)
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return scaled
}

// EncodeDataURL scales img to fit maxDim and returns it as a base64 PNG data URL.
func EncodeDataURL(img image.Image, maxDim int) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Scale(img, maxDim)); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL reverses EncodeDataURL.
func DecodeDataURL(s string) (image.Image, error) {
	if len(s) < len(DataURLPrefix) || s[:len(DataURLPrefix)] != DataURLPrefix {
		return nil, fmt.Errorf("not a png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(DataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
