package testkit

import (
	"math"
	"testing"
)

func TestNormalSample_Deterministic(t *testing.T) {
	a := NormalSample(42, 100, 0, 1)
	b := NormalSample(42, 100, 0, 1)
	if len(a) != 100 {
		t.Fatalf("len = %d, want 100", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at index %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := NormalSample(43, 100, 0, 1)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical samples")
	}
}

func TestNormalSample_Moments(t *testing.T) {
	xs := NormalSample(7, 20000, 5, 2)

	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if math.Abs(mean-5) > 0.1 {
		t.Errorf("mean = %v, want about 5", mean)
	}

	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	sd := math.Sqrt(ss / float64(len(xs)-1))
	if math.Abs(sd-2) > 0.1 {
		t.Errorf("sd = %v, want about 2", sd)
	}
}

func TestContaminatedNormal_HasOutliers(t *testing.T) {
	xs := ContaminatedNormal(3, 1000, 0, 1, 0.1, 10)
	if len(xs) != 1000 {
		t.Fatalf("len = %d, want 1000", len(xs))
	}

	outliers := 0
	for _, x := range xs {
		if math.Abs(x) > 5 {
			outliers++
		}
	}
	if outliers == 0 {
		t.Error("expected some values beyond 5 standard deviations")
	}
}
