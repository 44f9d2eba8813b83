package utils

import "time"

// Stats for performance monitoring
type Stats struct {
	TicksPerSecond    float64
	AveragePopulation float64
	PeakPopulation    int
	TotalTicks        uint64
	Restarts          int
	StartTime         time.Time
	LastTickDuration  time.Duration
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records one tick that took duration and left population live cells
func (s *Stats) Update(tick uint64, population int, duration time.Duration) {
	s.TotalTicks = tick
	s.LastTickDuration = duration
	if duration > 0 {
		s.TicksPerSecond = 1.0 / duration.Seconds()
	}
	s.PeakPopulation = max(s.PeakPopulation, population)

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Runtime returns the time since the stats were created
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
