package audio

import (
	"errors"
	"math"
	"testing"
)

func TestFoldSamples_8Bit(t *testing.T) {
	// (min,max) pairs at 8-bit scale: the larger magnitude wins, divided
	// by 128 and clamped to 1.
	data := []int{-64, 32, -128, 100, 0, 0, 120, -128}
	actual, err := FoldSamples(data, 8)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{0.5, 1.0, 0.0, 1.0}
	comparePeaks(t, expected, actual)
}

func TestFoldSamples_16Bit(t *testing.T) {
	data := []int{-16384, 100, 32768, -32768}
	actual, err := FoldSamples(data, 16)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{0.5, 1.0}
	comparePeaks(t, expected, actual)
}

func TestFoldSamples_Clamps(t *testing.T) {
	actual, err := FoldSamples([]int{-4000, 200}, 8)
	if err != nil {
		t.Fatal(err)
	}
	if actual[0] != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", actual[0])
	}
}

func TestFoldSamples_OddTrailingValueDropped(t *testing.T) {
	actual, err := FoldSamples([]int{-64, 64, 12}, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(actual) != 1 {
		t.Errorf("expected 1 peak from an unpaired trailing value, got %d", len(actual))
	}
}

func TestFoldSamples_UnknownBitDepth(t *testing.T) {
	_, err := FoldSamples([]int{1, 2}, 24)
	if !errors.Is(err, ErrToolOutput) {
		t.Errorf("expected ErrToolOutput, got %v", err)
	}
}

func TestFoldThenResample(t *testing.T) {
	// End-to-end shape of the extractor's post-processing.
	data := make([]int, 0, 40)
	for i := 0; i < 20; i++ {
		data = append(data, -i, i)
	}
	peaks, err := FoldSamples(data, 8)
	if err != nil {
		t.Fatal(err)
	}
	out := Resample(peaks, 5)
	if len(out) != 5 {
		t.Fatalf("expected 5 peaks, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Errorf("max-pooled ramp should be non-decreasing, got %v", out)
			break
		}
	}
	for _, p := range out {
		if p < 0 || p > 1 {
			t.Errorf("peak %v outside [0,1]", p)
		}
		if math.Round(p*1000)/1000 != p {
			t.Errorf("peak %v not rounded to 3 decimals", p)
		}
	}
}
