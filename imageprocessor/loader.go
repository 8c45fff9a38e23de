package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagetagger/logging"

	"gocv.io/x/gocv"
)

// ErrDecode marks input bytes that cannot be validated as non-empty pixel
// data with positive dimensions. Callers map it to a 4xx-style response.
var ErrDecode = errors.New("cannot decode image")

// Decode turns raw bytes into a 3-channel BGR Mat. OpenCV decoding is tried
// first; TIFF and WebP payloads OpenCV rejects go through the Go decoders.
func Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image payload: %w", ErrDecode)
	}

	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !img.Empty() {
		return img, nil
	}
	if err == nil {
		img.Close()
	}

	return decodeFallback(data)
}

// decodeFallback decodes via image.Decode (jpeg/png/tiff/webp registered)
// and converts the result into the BGR layout the extractor expects.
func decodeFallback(data []byte) (gocv.Mat, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("unrecognized image data: %w", ErrDecode)
	}

	bounds := src.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return gocv.NewMat(), fmt.Errorf("image has no pixels: %w", ErrDecode)
	}

	rgb, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot convert %s image to matrix: %w", format, ErrDecode)
	}
	defer rgb.Close()

	// RGB<->BGR is the same channel swap in both directions.
	bgr := gocv.NewMat()
	gocv.CvtColor(rgb, &bgr, gocv.ColorBGRToRGB)

	logging.DebugLog("Decoded %s image via fallback decoder (%dx%d)", format, bounds.Dx(), bounds.Dy())
	return bgr, nil
}

// LoadImage loads an image file from disk as a 3-channel BGR Mat.
func LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if !img.Empty() {
		return img, nil
	}
	img.Close()

	// IMRead failed; re-read the bytes and run the fallback chain so TIFF
	// and WebP files still load on builds without those OpenCV codecs.
	data, err := os.ReadFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot read image file %s: %v", path, err)
	}

	m, err := Decode(data)
	if err != nil {
		return m, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return m, nil
}
