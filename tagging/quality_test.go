package tagging

import (
	"testing"

	"imagetagger/types"
)

func TestScoreQuality_LightingBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		brightness float64
		want       string
	}{
		{0, types.LightingUnderexposed},
		{50, types.LightingUnderexposed},
		{79.9, types.LightingUnderexposed},
		{95, types.LightingGood},
		{110, types.LightingExcellent},
		{140, types.LightingExcellent},
		{180, types.LightingExcellent},
		{200, types.LightingGood},
		{230.5, types.LightingOverexposed},
		{250, types.LightingOverexposed},
	}

	for _, tc := range tests {
		tc := tc
		m := types.ImageMetrics{Width: 800, Height: 600, Brightness: tc.brightness}
		if got := ScoreQuality(m).Lighting; got != tc.want {
			t.Errorf("lighting at brightness %v = %q, want %q", tc.brightness, got, tc.want)
		}
	}
}

// Raising brightness alone must walk the buckets in exposure order.
func TestScoreQuality_LightingMonotonic(t *testing.T) {
	t.Parallel()

	order := map[string]int{
		types.LightingUnderexposed: 0,
		types.LightingGood:         1,
		types.LightingExcellent:    1, // good and excellent share the mid band
		types.LightingOverexposed:  2,
	}

	prev := -1
	for brightness := 50.0; brightness <= 250; brightness += 5 {
		m := types.ImageMetrics{Width: 800, Height: 600, Brightness: brightness}
		rank := order[ScoreQuality(m).Lighting]
		if rank < prev {
			t.Fatalf("lighting bucket regressed at brightness %v", brightness)
		}
		prev = rank
	}
}

func TestScoreQuality_VisualAppeal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		metrics types.ImageMetrics
		want    int
	}{
		{
			name:    "uniform mid gray only gets brightness points",
			metrics: types.ImageMetrics{Width: 800, Height: 600, Brightness: 128},
			want:    27,
		},
		{
			name: "ideal frame maxes every sub-score",
			metrics: types.ImageMetrics{
				Width: 800, Height: 600, Brightness: 140, Contrast: 80,
				Sharpness: 400, Colorfulness: 80,
			},
			want: 100,
		},
		{
			name:    "black frame scores zero",
			metrics: types.ImageMetrics{Width: 800, Height: 600},
			want:    0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ScoreQuality(tc.metrics).VisualAppeal; got != tc.want {
				t.Errorf("VisualAppeal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreQuality_Consistency(t *testing.T) {
	t.Parallel()

	// Sitting exactly on the colorful style centroid scores 100.
	onCentroid := types.ImageMetrics{
		Width: 800, Height: 600, Brightness: 140, Contrast: 35, Colorfulness: 70,
	}
	if got := ScoreQuality(onCentroid).Consistency; got != 100 {
		t.Errorf("Consistency on centroid = %d, want 100", got)
	}

	// Uniform mid gray is ~79 away from the nearest centroid.
	if got := ScoreQuality(midGray()).Consistency; got != 60 {
		t.Errorf("Consistency for mid gray = %d, want 60", got)
	}
}

func TestScoreQuality_ScoresStayInBounds(t *testing.T) {
	t.Parallel()

	extremes := []types.ImageMetrics{
		{Width: 1, Height: 1},
		{Width: 10000, Height: 1, Brightness: 255, Contrast: 1e6, Sharpness: 1e9, Colorfulness: 1e6},
		{Width: 800, Height: 600, Brightness: 128},
	}

	for _, m := range extremes {
		q := ScoreQuality(m)
		if q.VisualAppeal < 0 || q.VisualAppeal > 100 {
			t.Errorf("VisualAppeal = %d out of [0,100] for %+v", q.VisualAppeal, m)
		}
		if q.Consistency < 0 || q.Consistency > 100 {
			t.Errorf("Consistency = %d out of [0,100] for %+v", q.Consistency, m)
		}
	}
}
