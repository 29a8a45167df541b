package model

// Artifact is one category's diagnostic output: the verdict, its supporting
// charts, and pre-formatted display strings keyed by stable names.
type Artifact struct {
	Abnormal bool              `json:"abnormal"`
	Charts   []Chart           `json:"charts"`
	Vars     map[string]string `json:"vars"`
}

// NewArtifact returns an artifact with an empty vars map.
func NewArtifact() *Artifact {
	return &Artifact{Vars: make(map[string]string)}
}

// ReportEntry is one row of the diagnosis report.
type ReportEntry struct {
	Category    Category    `json:"category"`
	DisplayType DisplayType `json:"display_type"`
	ShortLabel  string      `json:"short_label"`
	Explanation string      `json:"explanation"`
	Priority    int         `json:"priority"`
	Artifact    *Artifact   `json:"artifact"`
}

// Report is the ordered diagnosis of one job.
type Report struct {
	JobID   string        `json:"job_id"`
	Entries []ReportEntry `json:"entries"`
}

// Abnormal reports whether any entry carries an abnormal verdict.
func (r *Report) Abnormal() bool {
	for _, e := range r.Entries {
		if e.Artifact != nil && e.Artifact.Abnormal {
			return true
		}
	}
	return false
}

// Entry returns the entry for category, if present.
func (r *Report) Entry(c Category) (ReportEntry, bool) {
	for _, e := range r.Entries {
		if e.Category == c {
			return e, true
		}
	}
	return ReportEntry{}, false
}
