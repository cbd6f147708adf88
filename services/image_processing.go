package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// CleanItemPhotoBackground composites a wardrobe photo over a white
// background using a blurred mask, so closet thumbnails get a catalog
// look without hard cutout edges.
// - imageBytes: The input image as a byte slice.
// - threshold: The brightness value (0-255) used to identify the background for the initial mask.
// - blurSigma: The strength of the Gaussian blur applied to the mask. Higher values mean a softer, wider transition.
func CleanItemPhotoBackground(imageBytes []byte, threshold uint8, blurSigma float64) ([]byte, error) {
	originalImg, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := originalImg.Bounds()
	width, height := bounds.Max.X, bounds.Max.Y

	// Hard mask first. White = background, black = garment.
	mask := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := originalImg.At(x, y)
			r, g, b, _ := c.RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			// Luminance is more accurate than a simple RGB check.
			luminance := 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)

			if luminance >= float64(threshold) {
				mask.SetGray(x, y, color.Gray{Y: 255})
			} else {
				mask.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	// Blurring the mask gives the soft, feathered transition.
	blurredMask := imaging.Blur(mask, blurSigma)

	finalImg := image.NewNRGBA(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := originalImg.At(x, y).RGBA()

			// The blurred mask is grayscale, so R carries the gray value.
			maskAlpha, _, _, _ := blurredMask.At(x, y).RGBA()

			// White on mask means background, so the mask logic inverts:
			// alpha is how much of the original garment shows through.
			alpha := 1.0 - float64(maskAlpha)/65535.0

			finalR := float64(r)*alpha + 65535.0*(1.0-alpha)
			finalG := float64(g)*alpha + 65535.0*(1.0-alpha)
			finalB := float64(b)*alpha + 65535.0*(1.0-alpha)

			finalImg.SetNRGBA(x, y, color.NRGBA{
				R: uint8(finalR / 257),
				G: uint8(finalG / 257),
				B: uint8(finalB / 257),
				A: uint8(a / 257),
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, finalImg); err != nil {
		return nil, fmt.Errorf("failed to encode final image: %w", err)
	}
	return buf.Bytes(), nil
}
