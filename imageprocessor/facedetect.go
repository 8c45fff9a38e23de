package imageprocessor

import (
	"fmt"
	"image"

	"imagetagger/logging"

	"gocv.io/x/gocv"
)

// Face detection parameters. The input is downscaled before the cascade runs,
// so the minimum face size is scaled accordingly.
const (
	faceDetectScale   = 0.6
	cascadeScaleStep  = 1.1
	cascadeNeighbors  = 5
	minFaceSizePixels = 30
)

// FaceCounter counts frontal faces in a grayscale image. Implementations
// must never fail: when detection is unavailable they report zero faces.
type FaceCounter interface {
	Count(gray gocv.Mat) int
}

// CascadeFaceCounter runs a pretrained Haar frontal-face cascade.
type CascadeFaceCounter struct {
	classifier gocv.CascadeClassifier
	loaded     bool
}

// NewCascadeFaceCounter loads the cascade XML at cascadePath. A missing or
// unreadable cascade is an error so the caller can decide whether to run
// without face detection.
func NewCascadeFaceCounter(cascadePath string) (*CascadeFaceCounter, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("cannot load face cascade from %s", cascadePath)
	}
	return &CascadeFaceCounter{classifier: classifier, loaded: true}, nil
}

// Count detects faces on a downscaled copy of the grayscale image.
func (c *CascadeFaceCounter) Count(gray gocv.Mat) int {
	if c == nil || !c.loaded || gray.Empty() {
		return 0
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(gray, &small, image.Point{}, faceDetectScale, faceDetectScale, gocv.InterpolationLinear)

	minSide := int(minFaceSizePixels * faceDetectScale)
	if small.Cols() < minSide || small.Rows() < minSide {
		return 0
	}

	rects := c.classifier.DetectMultiScaleWithParams(
		small,
		cascadeScaleStep,
		cascadeNeighbors,
		0,
		image.Pt(minSide, minSide),
		image.Pt(0, 0),
	)
	return len(rects)
}

// Close releases the underlying classifier.
func (c *CascadeFaceCounter) Close() {
	if c != nil && c.loaded {
		c.classifier.Close()
		c.loaded = false
	}
}

// NewFaceCounterOrNil tries to load the cascade and degrades to nil (zero
// faces everywhere) when the cascade is unavailable, logging a warning.
func NewFaceCounterOrNil(cascadePath string) FaceCounter {
	if cascadePath == "" {
		logging.LogWarning("No face cascade configured, face counts will be zero")
		return nil
	}
	counter, err := NewCascadeFaceCounter(cascadePath)
	if err != nil {
		logging.LogWarning("Face cascade unavailable: %v, face counts will be zero", err)
		return nil
	}
	return counter
}
