package services

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// MaxImageSide bounds the longer side of images sent for analysis and stored.
	MaxImageSide = 1536
	jpegQuality  = 90
)

// PrepareGarmentImage decodes any supported image, applies EXIF orientation,
// fits it into maxSide and re-encodes it as JPEG.
func PrepareGarmentImage(data []byte, maxSide int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	return encodeJPEG(img)
}

// WhitenBackgroundFeathered blends bright pixels outside a protected central
// area towards white. Pixels with luminance at or below lowerThreshold are kept,
// at or above upperThreshold become white, and the range between is blended
// linearly. centralProtectionRatio is the fraction (0..1) of width and height
// around the center left untouched.
func WhitenBackgroundFeathered(imageBytes []byte, lowerThreshold, upperThreshold uint8, centralProtectionRatio float64) ([]byte, error) {
	if lowerThreshold >= upperThreshold {
		return nil, fmt.Errorf("lowerThreshold must be less than upperThreshold")
	}
	if centralProtectionRatio < 0.0 || centralProtectionRatio > 1.0 {
		return nil, fmt.Errorf("centralProtectionRatio must be between 0.0 and 1.0")
	}

	src, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img := imaging.Clone(src)
	whiten(img, lowerThreshold, upperThreshold, protectedRect(img.Bounds(), centralProtectionRatio))
	return encodeJPEG(img)
}

func protectedRect(bounds image.Rectangle, ratio float64) image.Rectangle {
	w := int(float64(bounds.Dx()) * ratio)
	h := int(float64(bounds.Dy()) * ratio)
	x0 := bounds.Min.X + (bounds.Dx()-w)/2
	y0 := bounds.Min.Y + (bounds.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func whiten(img *image.NRGBA, lower, upper uint8, protected image.Rectangle) {
	transition := float64(upper - lower)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if image.Pt(x, y).In(protected) {
				continue
			}
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+3 : i+3]
			luminance := 0.299*float64(px[0]) + 0.587*float64(px[1]) + 0.114*float64(px[2])
			switch {
			case luminance <= float64(lower):
			case luminance >= float64(upper):
				px[0], px[1], px[2] = 255, 255, 255
			default:
				blend := (luminance - float64(lower)) / transition
				for c := range px {
					px[c] = uint8(math.Round(float64(px[c])*(1.0-blend) + 255.0*blend))
				}
			}
		}
	}
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image to jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
