package engine

import (
	"golang.org/x/text/message"

	"github.com/wuzhjian/compass/model"
)

// Analyzer turns one category's detector result into a diagnostic artifact.
//
// Analyze must be pure: no I/O, no mutation of its arguments, and identical
// output for identical input. It returns nil when the payload does not decode
// to the analyzer's expected shape or carries nothing to show; the category
// is then left out of the report.
//
// Explain only formats strings already stored in the artifact's vars. A nil
// printer renders English.
type Analyzer interface {
	Category() model.Category
	DisplayType() model.DisplayType
	Priority() int
	Analyze(result model.DetectorResult, cfg model.DetectorConfig, jobID string) *model.Artifact
	Explain(a *model.Artifact, p *message.Printer) string
	ShortLabel() string
}

// decodeAs decodes result and returns its payload as T. It fails when the
// result belongs to another category or does not decode.
func decodeAs[T model.Finding](result model.DetectorResult, want model.Category) (T, error) {
	var zero T
	if result.Category != want {
		return zero, errWrongCategory{got: result.Category, want: want}
	}
	f, err := model.DecodeFinding(result)
	if err != nil {
		return zero, err
	}
	t, ok := f.(T)
	if !ok {
		return zero, errWrongCategory{got: f.Category(), want: want}
	}
	return t, nil
}

type errWrongCategory struct {
	got, want model.Category
}

func (e errWrongCategory) Error() string {
	return "payload of category " + string(e.got) + " handed to " + string(e.want) + " analyzer"
}
