package imageprocessor

import (
	"fmt"
	"image"
	"math"

	"imagetagger/types"

	"gocv.io/x/gocv"
)

const epsilon = 1e-9

// Canny hysteresis thresholds on the 0-255 scale.
const (
	cannyLow  = 100
	cannyHigh = 200
)

// Dominant-color clustering parameters.
const (
	clusterGridSize   = 100
	clusterCount      = 3
	clusterIterations = 10
)

// ExtractMetrics computes the full ImageMetrics record for a decoded BGR
// image. The computation is pure: identical pixels produce identical metrics.
// faces may be nil, in which case the face count is zero.
func ExtractMetrics(img gocv.Mat, faces FaceCounter) (types.ImageMetrics, error) {
	if img.Empty() || img.Cols() < 1 || img.Rows() < 1 {
		return types.ImageMetrics{}, fmt.Errorf("empty pixel data: %w", ErrDecode)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() >= 3 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	brightness, contrast := meanStdDev(gray)

	m := types.ImageMetrics{
		Width:                      img.Cols(),
		Height:                     img.Rows(),
		Brightness:                 brightness,
		Contrast:                   contrast,
		Sharpness:                  computeSharpness(gray),
		Colorfulness:               computeColorfulness(img),
		EdgeDensity:                computeEdgeDensity(gray),
		DominantRGB:                computeDominantColor(img),
		SaturationMean:             computeSaturationMean(img),
		SkinRatio:                  computeSkinRatio(img),
		CentroidDistanceFromCenter: computeCentroidDistance(gray),
	}

	if faces != nil {
		m.Faces = faces.Count(gray)
	}

	return m, nil
}

// meanStdDev returns mean and population standard deviation of a
// single-channel image.
func meanStdDev(src gocv.Mat) (float64, float64) {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()

	gocv.MeanStdDev(src, &mean, &stddev)
	return mean.GetDoubleAt(0, 0), stddev.GetDoubleAt(0, 0)
}

// computeSharpness returns the variance of the Laplacian of the grayscale
// image. Low values indicate blur; the metric is unbounded above.
func computeSharpness(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()

	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	_, stddev := meanStdDev(lap)
	return stddev * stddev
}

// computeColorfulness implements the Hasler-Suesstrunk colorfulness metric
// over the rg and yb opponent color planes.
func computeColorfulness(img gocv.Mat) float64 {
	if img.Channels() < 3 {
		return 0
	}

	chans := gocv.Split(img)
	defer func() {
		for i := range chans {
			chans[i].Close()
		}
	}()

	b := gocv.NewMat()
	defer b.Close()
	g := gocv.NewMat()
	defer g.Close()
	r := gocv.NewMat()
	defer r.Close()
	chans[0].ConvertTo(&b, gocv.MatTypeCV32F)
	chans[1].ConvertTo(&g, gocv.MatTypeCV32F)
	chans[2].ConvertTo(&r, gocv.MatTypeCV32F)

	rg := gocv.NewMat()
	defer rg.Close()
	gocv.AbsDiff(r, g, &rg)

	mix := gocv.NewMat()
	defer mix.Close()
	gocv.AddWeighted(r, 0.5, g, 0.5, 0, &mix)

	yb := gocv.NewMat()
	defer yb.Close()
	gocv.AbsDiff(mix, b, &yb)

	meanRG, stdRG := meanStdDev(rg)
	meanYB, stdYB := meanStdDev(yb)

	stdRoot := math.Sqrt(stdRG*stdRG + stdYB*stdYB)
	meanRoot := math.Sqrt(meanRG*meanRG + meanYB*meanYB)
	return stdRoot + 0.3*meanRoot
}

// computeEdgeDensity returns the fraction of Canny edge pixels.
func computeEdgeDensity(gray gocv.Mat) float64 {
	edges := gocv.NewMat()
	defer edges.Close()

	gocv.Canny(gray, &edges, cannyLow, cannyHigh)

	total := float64(edges.Rows()*edges.Cols()) + epsilon
	return float64(gocv.CountNonZero(edges)) / total
}

// computeDominantColor clusters a 100x100 downscale into three color groups
// and returns the centroid of the largest one as RGB. Clustering failures
// degrade to black rather than erroring.
func computeDominantColor(img gocv.Mat) [3]int {
	if img.Channels() < 3 {
		return [3]int{}
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(img, &small, image.Pt(clusterGridSize, clusterGridSize), 0, 0, gocv.InterpolationArea)

	samples32 := gocv.NewMat()
	defer samples32.Close()
	small.ConvertTo(&samples32, gocv.MatTypeCV32F)

	samples := samples32.Reshape(1, clusterGridSize*clusterGridSize)
	defer samples.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.MaxIter+gocv.EPS, clusterIterations, 1.0)
	gocv.KMeans(samples, clusterCount, &labels, criteria, 1, gocv.KMeansPPCenters, &centers)

	if centers.Rows() < clusterCount || labels.Rows() < 1 {
		return [3]int{}
	}

	counts := make([]int, clusterCount)
	for i := 0; i < labels.Rows(); i++ {
		idx := int(labels.GetIntAt(i, 0))
		if idx >= 0 && idx < clusterCount {
			counts[idx]++
		}
	}

	dominant := 0
	for i := 1; i < clusterCount; i++ {
		if counts[i] > counts[dominant] {
			dominant = i
		}
	}

	// Centers are stored BGR; report RGB.
	return [3]int{
		clampChannel(centers.GetFloatAt(dominant, 2)),
		clampChannel(centers.GetFloatAt(dominant, 1)),
		clampChannel(centers.GetFloatAt(dominant, 0)),
	}
}

func clampChannel(v float32) int {
	c := int(math.Round(float64(v)))
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}

// computeSaturationMean returns the mean of the HSV saturation channel.
func computeSaturationMean(img gocv.Mat) float64 {
	if img.Channels() < 3 {
		return 0
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	chans := gocv.Split(hsv)
	defer func() {
		for i := range chans {
			chans[i].Close()
		}
	}()

	return chans[1].Mean().Val1
}

// computeSkinRatio counts pixels inside both the HSV and the YCrCb skin
// color ranges.
func computeSkinRatio(img gocv.Mat) float64 {
	if img.Channels() < 3 {
		return 0
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	gocv.CvtColor(img, &ycrcb, gocv.ColorBGRToYCrCb)

	hsvMask := gocv.NewMat()
	defer hsvMask.Close()
	gocv.InRangeWithScalar(hsv, gocv.NewScalar(0, 15, 0, 0), gocv.NewScalar(25, 200, 255, 0), &hsvMask)

	ycrcbMask := gocv.NewMat()
	defer ycrcbMask.Close()
	gocv.InRangeWithScalar(ycrcb, gocv.NewScalar(0, 135, 85, 0), gocv.NewScalar(255, 180, 135, 0), &ycrcbMask)

	skin := gocv.NewMat()
	defer skin.Close()
	gocv.BitwiseAnd(hsvMask, ycrcbMask, &skin)

	total := float64(skin.Rows()*skin.Cols()) + epsilon
	return float64(gocv.CountNonZero(skin)) / total
}

// computeCentroidDistance treats grayscale intensity as mass, finds the
// intensity-weighted centroid, and returns the Euclidean norm of the
// per-axis normalized offsets from the geometric center. A blank image has
// no mass and reports a centered composition.
func computeCentroidDistance(gray gocv.Mat) float64 {
	moments := gocv.Moments(gray, false)

	total := moments["m00"]
	if total < epsilon {
		return 0
	}

	w := float64(gray.Cols())
	h := float64(gray.Rows())
	centroidX := moments["m10"] / total
	centroidY := moments["m01"] / total

	dx := (centroidX - w/2.0) / (w + epsilon)
	dy := (centroidY - h/2.0) / (h + epsilon)
	return math.Hypot(dx, dy)
}
