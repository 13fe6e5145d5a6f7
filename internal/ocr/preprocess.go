package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Document-scan inputs degrade quickly below ~1000px on the short side, so
// anything smaller gets upscaled before recognition.
const minDimension = 1000

// Preprocess normalizes an image for OCR: orientation fix, contrast and
// sharpness boost, grayscale conversion, mild denoise, and upscaling of
// small inputs. Returns the processed image re-encoded as PNG.
func Preprocess(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = imaging.AdjustContrast(img, 25)
	img = imaging.Sharpen(img, 1.0)
	img = imaging.Grayscale(img)
	// Knock down speckle noise without smearing glyph edges.
	img = imaging.Blur(img, 0.4)
	img = upscaleSmall(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func upscaleSmall(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= minDimension && h >= minDimension {
		return img
	}

	scale := float64(minDimension) / float64(w)
	if hs := float64(minDimension) / float64(h); hs > scale {
		scale = hs
	}
	return imaging.Resize(img, int(float64(w)*scale), int(float64(h)*scale), imaging.Lanczos)
}
