package imageprocessor

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// ComputeAverageHash calculates an 8x8 average hash used by the scanner to
// count distinct images across a folder.
func ComputeAverageHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(8, 8), 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() >= 3 {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	} else {
		resized.CopyTo(&gray)
	}

	var sum uint64
	var count int
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			sum += uint64(gray.GetUCharAt(y, x))
			count++
		}
	}

	var threshold float64
	if count > 0 {
		threshold = float64(sum) / float64(count)
	}

	var hash strings.Builder
	hash.Grow(count)
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			if float64(gray.GetUCharAt(y, x)) >= threshold {
				hash.WriteByte('1')
			} else {
				hash.WriteByte('0')
			}
		}
	}

	return hash.String(), nil
}
