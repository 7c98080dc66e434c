package flow

import (
	"github.com/ritankar/dost/internal/api"
	"github.com/ritankar/dost/internal/testbank"
)

// Every message from an async round trip carries the identity it was issued
// under: the session id for session-scoped calls, the bank generation for
// test-bank work. Results whose identity no longer matches the screen's are
// discarded on arrival.

// sessionStartedMsg is sent when the session-start call returns. There is no
// session id yet, so Epoch ties the result to the reset generation that
// issued the call.
type sessionStartedMsg struct {
	Epoch  int
	Result api.StartResult
	Err    error
}

// subscribedMsg is sent when the push-event subscription attempt completes.
type subscribedMsg struct {
	SessionID string
	Ch        <-chan api.Event
	Err       error
}

// pushEventMsg delivers one push event. OK is false when the stream closed.
type pushEventMsg struct {
	SessionID string
	Event     api.Event
	OK        bool
}

// nextQuestionMsg is sent when the next-question call returns.
type nextQuestionMsg struct {
	SessionID string
	Result    api.NextResult
	Err       error
}

// answerResultMsg is sent when the submit-answer call returns.
type answerResultMsg struct {
	SessionID string
	Result    api.AnswerResult
	Err       error
}

// simulationStartedMsg is sent when the start-simulation call returns.
type simulationStartedMsg struct {
	SessionID string
	Scheduled int
	Err       error
}

// questionsLoadedMsg is sent when the test-bank load returns.
type questionsLoadedMsg struct {
	Gen       int
	Questions []testbank.Question
	Err       error
}

// mutationDueMsg fires when a question's one-shot mutation delay elapses.
type mutationDueMsg struct {
	Gen        int
	QuestionID string
}

// mutationResultMsg is sent when a mutate call returns.
type mutationResultMsg struct {
	Gen        int
	QuestionID string
	Question   testbank.Question
	Mutated    bool
	Err        error
}

// popupExpiredMsg fires when the visible popup's display duration elapses.
// Seq identifies which display it belongs to; a stale seq is ignored.
type popupExpiredMsg struct {
	Seq int
}
