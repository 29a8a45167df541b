package model

// Category identifies a resource/engine-specific diagnosis dimension.
type Category string

const (
	CategoryCPUWaste      Category = "cpu_waste"
	CategoryMemoryWaste   Category = "memory_waste"
	CategoryMRMemoryWaste Category = "mr_memory_waste"
)

func (c Category) String() string { return string(c) }

// DisplayType is a rendering hint for the report UI. Passed through verbatim.
type DisplayType string

const (
	DisplayMemoryChart DisplayType = "memoryChart"
	DisplayCPUChart    DisplayType = "cpuChart"
)

// TaskFamily is a task role grouping analyzed independently within a category.
type TaskFamily string

const (
	FamilyMap    TaskFamily = "map"
	FamilyReduce TaskFamily = "reduce"
)
