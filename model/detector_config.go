package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThreshold is returned when a threshold is outside 0..100.
var ErrInvalidThreshold = errors.New("threshold must be a percentage between 0 and 100")

// MRMemWasteConfig holds the MapReduce memory waste thresholds, in percent.
type MRMemWasteConfig struct {
	MapThreshold    float64 `json:"map_threshold" yaml:"map_threshold"`
	ReduceThreshold float64 `json:"reduce_threshold" yaml:"reduce_threshold"`
}

// MemWasteConfig holds the Spark memory waste threshold, in percent.
type MemWasteConfig struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// CPUWasteConfig holds the Spark CPU waste thresholds, in percent.
type CPUWasteConfig struct {
	ExecutorThreshold float64 `json:"executor_threshold" yaml:"executor_threshold"`
	DriverThreshold   float64 `json:"driver_threshold" yaml:"driver_threshold"`
}

// DetectorConfig is the thresholds bundle for one job execution.
// Analyzers only read it.
type DetectorConfig struct {
	MRMemWaste MRMemWasteConfig `json:"mr_memory_waste" yaml:"mr_memory_waste"`
	MemWaste   MemWasteConfig   `json:"memory_waste" yaml:"memory_waste"`
	CPUWaste   CPUWasteConfig   `json:"cpu_waste" yaml:"cpu_waste"`
}

// DefaultDetectorConfig returns the thresholds used when none are configured.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MRMemWaste: MRMemWasteConfig{MapThreshold: 50, ReduceThreshold: 50},
		MemWaste:   MemWasteConfig{Threshold: 50},
		CPUWaste:   CPUWasteConfig{ExecutorThreshold: 50, DriverThreshold: 95},
	}
}

// Validate checks both family thresholds are percentages.
func (c MRMemWasteConfig) Validate() error {
	return checkPercents(
		threshold{"mr_memory_waste.map_threshold", c.MapThreshold},
		threshold{"mr_memory_waste.reduce_threshold", c.ReduceThreshold},
	)
}

func (c MemWasteConfig) Validate() error {
	return checkPercents(threshold{"memory_waste.threshold", c.Threshold})
}

func (c CPUWasteConfig) Validate() error {
	return checkPercents(
		threshold{"cpu_waste.executor_threshold", c.ExecutorThreshold},
		threshold{"cpu_waste.driver_threshold", c.DriverThreshold},
	)
}

// Validate checks every threshold is a percentage.
func (c DetectorConfig) Validate() error {
	for _, cat := range []Category{CategoryMRMemoryWaste, CategoryMemoryWaste, CategoryCPUWaste} {
		if err := c.ValidateCategory(cat); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCategory checks only the thresholds cat reads. Categories without
// thresholds are always valid.
func (c DetectorConfig) ValidateCategory(cat Category) error {
	switch cat {
	case CategoryMRMemoryWaste:
		return c.MRMemWaste.Validate()
	case CategoryMemoryWaste:
		return c.MemWaste.Validate()
	case CategoryCPUWaste:
		return c.CPUWaste.Validate()
	}
	return nil
}

type threshold struct {
	name string
	v    float64
}

func checkPercents(ts ...threshold) error {
	for _, t := range ts {
		if math.IsNaN(t.v) || t.v < 0 || t.v > 100 {
			return fmt.Errorf("%s=%v: %w", t.name, t.v, ErrInvalidThreshold)
		}
	}
	return nil
}
