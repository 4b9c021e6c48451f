package dialog

import "github.com/skriptgen/skriptgen/internal/generation"

// Step is the phase of a conversation.
type Step int

const (
	StepContextGathering Step = iota
	StepSectionQuestion
	StepSectionValidation
	StepSectionComplete
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepContextGathering:
		return "context_gathering"
	case StepSectionQuestion:
		return "section_question"
	case StepSectionValidation:
		return "section_validation"
	case StepSectionComplete:
		return "section_complete"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// State holds everything a single conversation accumulates. It belongs to
// exactly one Controller and is never shared between conversations.
type State struct {
	Step Step

	// ContextInfo maps context-question text to the user's answer.
	ContextInfo map[string]string

	// SectionResponses maps section id to accepted, formatted content. It
	// grows monotonically until every section is present.
	SectionResponses map[string]string

	// CompletedSections lists section ids in completion order.
	CompletedSections []string

	// CurrentSection is the id of the section awaiting an answer, empty
	// when none is pending.
	CurrentSection string

	// CurrentSectionQuestionCount counts questions asked for the current
	// section.
	CurrentSectionQuestionCount int

	// QuestionErrorCount counts generation fallbacks taken over the whole
	// conversation. Diagnostics only; it never gates progress.
	QuestionErrorCount int

	// ContentQualityChecks keeps the last validation outcome per section
	// for inspection.
	ContentQualityChecks map[string]generation.ValidationOutcome

	// pendingContextQuestion is the context question the next answer
	// belongs to.
	pendingContextQuestion string
}

func newState() *State {
	return &State{
		Step:                 StepContextGathering,
		ContextInfo:          map[string]string{},
		SectionResponses:     map[string]string{},
		ContentQualityChecks: map[string]generation.ValidationOutcome{},
	}
}
