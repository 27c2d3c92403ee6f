package improve

import (
	"fmt"

	"github.com/jonathan/resume-matcher/internal/types"
)

// PipelineError is an unexpected failure inside the pipeline. It never reaches
// callers of Improve; it is logged and recorded in the Report.
type PipelineError struct {
	Stage   string
	Section types.SectionID
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	where := e.Stage
	if e.Section != "" {
		where = fmt.Sprintf("%s %s", e.Stage, e.Section)
	}
	if e.Cause != nil {
		return fmt.Sprintf("improve %s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("improve %s: %s", where, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}
