package utils

import (
	"math"
	"testing"
	"time"
)

func TestStatsUpdate(t *testing.T) {
	s := NewStats()
	s.Update(1, 100, 100*time.Millisecond)
	if s.AveragePopulation != 100 || s.PeakPopulation != 100 || math.Abs(s.TicksPerSecond-10) > 1e-9 {
		t.Fatalf("first update: %+v", s)
	}
	s.Update(2, 200, 0)
	if math.Abs(s.AveragePopulation-110) > 1e-9 || s.PeakPopulation != 200 || s.TotalTicks != 2 {
		t.Fatalf("second update: %+v", s)
	}
	if math.Abs(s.TicksPerSecond-10) > 1e-9 {
		t.Fatal("zero duration should keep the previous rate")
	}
}
