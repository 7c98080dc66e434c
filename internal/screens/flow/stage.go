package flow

// Stage is the session flow's state machine position. Exactly one stage is
// active at any time; the view renders only the active stage.
type Stage int

const (
	// StageIntro collects the user's initial free-text check-in.
	StageIntro Stage = iota
	// StageLoading is the transient state while a primary round trip is
	// outstanding. Reached from intro and qa.
	StageLoading
	// StageQA shows the current intake prompt and collects an answer.
	StageQA
	// StagePopups is the post-completion phase: popup delivery plus the
	// test-bank panel.
	StagePopups
)

func (s Stage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StageLoading:
		return "loading"
	case StageQA:
		return "qa"
	case StagePopups:
		return "popups"
	default:
		return "unknown"
	}
}
