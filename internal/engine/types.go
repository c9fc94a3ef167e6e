package engine

import "fmt"

type OutcomeKind int

const (
	OutcomeUpdated OutcomeKind = iota
	OutcomeUpToDate
	OutcomeUnclean
	OutcomeNoUpstream
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUpToDate:
		return "up_to_date"
	case OutcomeUnclean:
		return "unclean"
	case OutcomeNoUpstream:
		return "no_upstream"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of processing one repository. Exactly one
// outcome is produced per task.
type Outcome struct {
	Repo         string
	Kind         OutcomeKind
	FilesChanged int
	Err          error
}

// Step names the update stage a task failed in.
type Step string

const (
	StepOpen     Step = "open"
	StepStatus   Step = "status"
	StepFetch    Step = "fetch"
	StepUpstream Step = "upstream"
	StepRefMove  Step = "reference"
	StepCheckout Step = "checkout"
	StepDiff     Step = "diff"
)

// StepError ties a task failure to the stage it happened in. Failures are
// outcome values, never panics; a worker logs them and moves on.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func failure(repo string, step Step, err error) Outcome {
	return Outcome{
		Repo: repo,
		Kind: OutcomeError,
		Err:  &StepError{Step: step, Err: err},
	}
}
