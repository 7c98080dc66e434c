// Package flow implements the single session flow screen: intro check-in,
// intake question loop, and the popup/test-bank phase after completion.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/ritankar/dost/internal/api"
	"github.com/ritankar/dost/internal/journal"
	"github.com/ritankar/dost/internal/popups"
	"github.com/ritankar/dost/internal/screen"
	"github.com/ritankar/dost/internal/testbank"
	"github.com/ritankar/dost/internal/ui/components"
	"github.com/ritankar/dost/internal/ui/layout"
)

const (
	introPlaceholder  = "How is your day going?"
	answerPlaceholder = "Type your answer..."

	// baselineSummary is shown before any simulation has been scheduled.
	baselineSummary = "Your day's pulses will play out here."
)

// FlowScreen implements screen.Screen for the whole session lifecycle. One
// primary round trip is in flight at a time; popup delivery and question
// mutation run beside the primary flow and never block it.
type FlowScreen struct {
	backend api.Backend
	events  api.EventSource
	journal journal.Journal
	log     zerolog.Logger

	stage      Stage
	loadingMsg string
	busy       bool

	epoch     int
	sessionID string
	domains   []string
	prompt    api.Prompt

	introInput  components.TextInput
	answerInput components.TextInput
	introHint   string
	qaHint      string

	queue        *popups.Queue
	feed         *popups.Feed
	showFeed     bool
	popupSummary string
	connected    bool
	eventCh      <-chan api.Event
	eventCancel  context.CancelFunc

	nav       *testbank.Navigator
	optCursor int
	bankGen   int
	bankHint  string
}

var _ screen.Screen = (*FlowScreen)(nil)
var _ screen.KeyHintProvider = (*FlowScreen)(nil)
var _ screen.StatusProvider = (*FlowScreen)(nil)

// New creates the flow screen with injected dependencies.
func New(backend api.Backend, events api.EventSource, jrnl journal.Journal, log zerolog.Logger) *FlowScreen {
	return &FlowScreen{
		backend:      backend,
		events:       events,
		journal:      jrnl,
		log:          log,
		stage:        StageIntro,
		introInput:   components.NewTextInput(introPlaceholder, false, 0),
		answerInput:  components.NewTextInput(answerPlaceholder, false, 0),
		queue:        popups.NewQueue(),
		feed:         popups.NewFeed(),
		popupSummary: baselineSummary,
		nav:          testbank.NewNavigator(),
	}
}

func (s *FlowScreen) Init() tea.Cmd {
	return s.introInput.Init()
}

func (s *FlowScreen) Title() string {
	switch s.stage {
	case StageIntro:
		return "Check-in"
	case StageLoading:
		return "One moment"
	case StageQA:
		return "Intake"
	case StagePopups:
		return "Focus Session"
	default:
		return "Dost"
	}
}

func (s *FlowScreen) Status() layout.Status {
	return layout.Status{SessionID: s.sessionID, Connected: s.connected}
}

func (s *FlowScreen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case StageIntro:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Begin"},
		}
	case StageQA:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+R", Description: "Restart"},
		}
	case StagePopups:
		return []layout.KeyHint{
			{Key: "←/→", Description: "Question"},
			{Key: "↑/↓", Description: "Option"},
			{Key: "Space", Description: "Pick"},
			{Key: "Enter", Description: "Submit"},
			{Key: "R", Description: "Reload"},
			{Key: "Tab", Description: "Feed"},
			{Key: "Ctrl+R", Description: "Restart"},
		}
	default:
		return nil
	}
}

func (s *FlowScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleSessionStarted(msg)

	case subscribedMsg:
		return s.handleSubscribed(msg)

	case pushEventMsg:
		return s.handlePushEvent(msg)

	case nextQuestionMsg:
		return s.handleNextQuestion(msg)

	case answerResultMsg:
		return s.handleAnswerResult(msg)

	case simulationStartedMsg:
		return s.handleSimulationStarted(msg)

	case questionsLoadedMsg:
		return s.handleQuestionsLoaded(msg)

	case mutationDueMsg:
		return s.handleMutationDue(msg)

	case mutationResultMsg:
		return s.handleMutationResult(msg)

	case popupExpiredMsg:
		return s.handlePopupExpired(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward everything else (cursor blinks etc.) to the focused input.
	var cmd tea.Cmd
	switch s.stage {
	case StageIntro:
		s.introInput, cmd = s.introInput.Update(msg)
	case StageQA:
		s.answerInput, cmd = s.answerInput.Update(msg)
	}
	return s, cmd
}

func (s *FlowScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+r" {
		return s.resetFlow()
	}

	switch s.stage {
	case StageIntro:
		if key == "enter" {
			return s.startSession()
		}
		s.introInput.ClearShake()
		var cmd tea.Cmd
		s.introInput, cmd = s.introInput.Update(msg)
		return s, cmd

	case StageLoading:
		return s, nil

	case StageQA:
		if key == "enter" {
			return s.submitAnswer()
		}
		s.answerInput.ClearShake()
		var cmd tea.Cmd
		s.answerInput, cmd = s.answerInput.Update(msg)
		return s, cmd

	case StagePopups:
		return s.handleBankKey(key)
	}

	return s, nil
}

// handleBankKey drives the test-bank panel: navigation, picking, the integer
// keypad, submit, reload and the feed toggle.
func (s *FlowScreen) handleBankKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "tab":
		s.showFeed = !s.showFeed
		return s, nil
	case "R", "shift+r":
		return s.reloadQuestions()
	case "left":
		s.nav.Goto(-1)
		s.optCursor = 0
		s.bankHint = ""
		return s, nil
	case "right":
		s.nav.Goto(1)
		s.optCursor = 0
		s.bankHint = ""
		return s, nil
	case "enter":
		return s.submitBankAnswer()
	}

	q := s.nav.Current()
	if q == nil {
		return s, nil
	}

	if q.IsInteger() {
		switch key {
		case "backspace":
			s.nav.Backspace()
		case "c":
			s.nav.ClearInput()
		default:
			if len(key) == 1 {
				s.nav.AppendDigit(rune(key[0]))
			}
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.optCursor > 0 {
			s.optCursor--
		}
		return s, nil
	case "down", "j":
		if s.optCursor < len(q.Options)-1 {
			s.optCursor++
		}
		return s, nil
	case "space", " ":
		if s.optCursor >= 0 && s.optCursor < len(q.Options) {
			s.nav.PickLabel(q.Options[s.optCursor].Label)
		}
		return s, nil
	}

	// Letter keys pick the matching option label directly.
	if len(key) == 1 {
		for _, opt := range q.Options {
			if strings.EqualFold(opt.Label, key) {
				s.nav.PickLabel(opt.Label)
				return s, nil
			}
		}
	}

	return s, nil
}

// startSession validates the check-in text and kicks off the session. Empty
// input is rejected locally without a round trip.
func (s *FlowScreen) startSession() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	text := strings.TrimSpace(s.introInput.Value())
	if text == "" {
		s.introHint = "Share a line or two about today first."
		s.introInput.Shake()
		return s, nil
	}
	s.introHint = ""
	s.enterLoading("Setting up your session…")
	return s, s.startSessionCmd(text)
}

func (s *FlowScreen) startSessionCmd(text string) tea.Cmd {
	epoch := s.epoch
	backend := s.backend
	return func() tea.Msg {
		res, err := backend.StartSession(context.Background(), text)
		return sessionStartedMsg{Epoch: epoch, Result: res, Err: err}
	}
}

func (s *FlowScreen) handleSessionStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Epoch != s.epoch {
		return s, nil
	}
	if msg.Err != nil {
		s.busy = false
		s.stage = StageIntro
		s.introHint = msg.Err.Error()
		s.logEvent("error", "session start: "+msg.Err.Error())
		return s, nil
	}

	s.sessionID = msg.Result.SessionID
	s.domains = msg.Result.ActiveDomains
	s.logEvent("stage", "session started "+s.sessionID)
	s.loadingMsg = "Lining up your first question…"

	// Subscription failure is non-fatal; the first question fetch rides the
	// same flight as the start call.
	return s, tea.Batch(
		s.subscribeCmd(s.sessionID),
		s.nextQuestionCmd(s.sessionID),
	)
}

func (s *FlowScreen) subscribeCmd(sessionID string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	if s.eventCancel != nil {
		s.eventCancel()
	}
	s.eventCancel = cancel
	events := s.events
	return func() tea.Msg {
		ch, err := events.Subscribe(ctx, sessionID)
		return subscribedMsg{SessionID: sessionID, Ch: ch, Err: err}
	}
}

func (s *FlowScreen) handleSubscribed(msg subscribedMsg) (screen.Screen, tea.Cmd) {
	if msg.SessionID != s.sessionID {
		return s, nil
	}
	if msg.Err != nil {
		s.connected = false
		s.feed.Add("connect_error", msg.Err.Error())
		s.logEvent("error", "subscribe: "+msg.Err.Error())
		return s, nil
	}
	s.connected = true
	s.eventCh = msg.Ch
	s.feed.Add("connected", "event stream live")
	return s, waitForEvent(msg.SessionID, msg.Ch)
}

// waitForEvent blocks on the event channel and reports one delivery. The
// session id pins the result to the subscription that produced it.
func waitForEvent(sessionID string, ch <-chan api.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return pushEventMsg{SessionID: sessionID, Event: ev, OK: ok}
	}
}

func (s *FlowScreen) handlePushEvent(msg pushEventMsg) (screen.Screen, tea.Cmd) {
	if msg.SessionID != s.sessionID {
		return s, nil
	}
	if !msg.OK {
		s.connected = false
		s.feed.Add("disconnected", "event stream closed")
		return s, nil
	}

	s.feed.Add(msg.Event.Name, msg.Event.Summary())
	s.logEvent("push_event", msg.Event.Summary())

	cmds := []tea.Cmd{waitForEvent(msg.SessionID, s.eventCh)}
	if p, ok := msg.Event.Popup(); ok {
		s.queue.Enqueue(p)
		if cmd := s.displayNextPopup(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return s, tea.Batch(cmds...)
}

// displayNextPopup promotes the next queued popup into the visible slot and
// arms its expiry timer. Returns nil when a popup is already showing or the
// queue is empty.
func (s *FlowScreen) displayNextPopup() tea.Cmd {
	p, seq, ok := s.queue.Next()
	if !ok {
		return nil
	}
	s.logEvent("popup", p.Message)
	return tea.Tick(p.DisplayDuration(), func(time.Time) tea.Msg {
		return popupExpiredMsg{Seq: seq}
	})
}

func (s *FlowScreen) handlePopupExpired(msg popupExpiredMsg) (screen.Screen, tea.Cmd) {
	if !s.queue.Expire(msg.Seq) {
		return s, nil
	}
	return s, s.displayNextPopup()
}

func (s *FlowScreen) nextQuestionCmd(sessionID string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		res, err := backend.NextQuestion(context.Background(), sessionID)
		return nextQuestionMsg{SessionID: sessionID, Result: res, Err: err}
	}
}

func (s *FlowScreen) handleNextQuestion(msg nextQuestionMsg) (screen.Screen, tea.Cmd) {
	if msg.SessionID != s.sessionID {
		return s, nil
	}
	if msg.Err != nil {
		s.qaHint = msg.Err.Error()
		s.leaveLoading(StageQA)
		s.logEvent("error", "next question: "+msg.Err.Error())
		return s, nil
	}

	switch msg.Result.Outcome {
	case api.NextPending:
		s.qaHint = msg.Result.Message
		s.leaveLoading(StageQA)
		return s, nil

	case api.NextDone:
		return s.handleCompletion(msg.Result.PopupsCount)

	default:
		s.prompt = msg.Result.Prompt
		s.qaHint = msg.Result.Prompt.Hint
		s.answerInput = components.NewTextInput(answerPlaceholder, false, 0)
		s.leaveLoading(StageQA)
		return s, s.answerInput.Init()
	}
}

// handleCompletion runs the done branch: schedule the popup simulation, then
// load the test bank. The flow stays busy until the bank arrives.
func (s *FlowScreen) handleCompletion(popupsCount int) (screen.Screen, tea.Cmd) {
	if popupsCount > 0 {
		s.popupSummary = fmt.Sprintf("Intake complete. %d pulses queued for your day.", popupsCount)
	}
	s.logEvent("stage", "intake complete")
	s.loadingMsg = "Setting up your focus run…"
	return s, s.startSimulationCmd(s.sessionID)
}

func (s *FlowScreen) startSimulationCmd(sessionID string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		n, err := backend.StartSimulation(context.Background(), sessionID)
		return simulationStartedMsg{SessionID: sessionID, Scheduled: n, Err: err}
	}
}

func (s *FlowScreen) handleSimulationStarted(msg simulationStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.SessionID != s.sessionID {
		return s, nil
	}
	// A failed simulation never blocks the test bank.
	if msg.Err != nil {
		s.popupSummary = "Pulse scheduling hiccup: " + msg.Err.Error()
		s.feed.Add("simulation_error", msg.Err.Error())
		s.logEvent("error", "simulation: "+msg.Err.Error())
	} else {
		s.popupSummary = fmt.Sprintf("%d pulses scheduled. Keep an eye on the overlay.", msg.Scheduled)
		s.logEvent("stage", "simulation started")
	}
	s.loadingMsg = "Fetching your question bank…"
	return s, s.loadQuestionsCmd()
}

// loadQuestionsCmd bumps the bank generation before issuing the fetch, which
// retires every outstanding mutation timer and any in-flight load.
func (s *FlowScreen) loadQuestionsCmd() tea.Cmd {
	s.bankGen++
	gen := s.bankGen
	backend := s.backend
	return func() tea.Msg {
		qs, err := backend.LoadQuestions(context.Background())
		return questionsLoadedMsg{Gen: gen, Questions: qs, Err: err}
	}
}

func (s *FlowScreen) handleQuestionsLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.bankGen {
		return s, nil
	}
	s.busy = false
	s.stage = StagePopups
	s.optCursor = 0

	if msg.Err != nil {
		s.bankHint = msg.Err.Error()
		s.logEvent("error", "load questions: "+msg.Err.Error())
		return s, nil
	}
	if len(msg.Questions) == 0 {
		s.nav.Load(nil)
		s.bankHint = "No questions available."
		return s, nil
	}

	s.nav.Load(msg.Questions)
	s.bankHint = fmt.Sprintf("%d questions loaded.", len(msg.Questions))
	s.logEvent("stage", s.bankHint)
	return s, s.scheduleMutations(msg.Gen)
}

// scheduleMutations arms one-shot timers for every mutation-eligible
// question in the freshly loaded bank.
func (s *FlowScreen) scheduleMutations(gen int) tea.Cmd {
	ids := testbank.MutationCandidates(s.nav.Questions())
	if len(ids) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		id := id
		cmds = append(cmds, tea.Tick(testbank.MutationDelay, func(time.Time) tea.Msg {
			return mutationDueMsg{Gen: gen, QuestionID: id}
		}))
	}
	return tea.Batch(cmds...)
}

func (s *FlowScreen) handleMutationDue(msg mutationDueMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.bankGen {
		return s, nil
	}
	// Re-check eligibility against the live question: a reload or an earlier
	// mutation may have changed it since the timer was armed.
	q := s.nav.QuestionByID(msg.QuestionID)
	if q == nil || !testbank.MutationEligible(q) {
		return s, nil
	}
	return s, s.mutateCmd(msg.Gen, msg.QuestionID)
}

func (s *FlowScreen) mutateCmd(gen int, questionID string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		q, mutated, err := backend.MutateQuestion(context.Background(), questionID)
		return mutationResultMsg{Gen: gen, QuestionID: questionID, Question: q, Mutated: mutated, Err: err}
	}
}

func (s *FlowScreen) handleMutationResult(msg mutationResultMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.bankGen {
		return s, nil
	}
	if msg.Err != nil {
		s.feed.Add("mutate_error", msg.QuestionID+": "+msg.Err.Error())
		s.logEvent("error", "mutate "+msg.QuestionID+": "+msg.Err.Error())
		return s, nil
	}

	q := msg.Question
	q.Mutated = true
	current, applied := s.nav.ApplyMutation(msg.QuestionID, q)
	if !applied {
		return s, nil
	}
	s.feed.Add("mutated", msg.QuestionID)
	s.logEvent("mutation", msg.QuestionID)
	if current {
		s.bankHint = "This question just shifted. Re-read it."
	}
	return s, nil
}

// submitAnswer validates the intake answer locally and posts it. Empty input
// is rejected without a round trip.
func (s *FlowScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	answer := strings.TrimSpace(s.answerInput.Value())
	if answer == "" {
		s.qaHint = "Type an answer first."
		s.answerInput.Shake()
		return s, nil
	}
	s.enterLoading("Reading your answer…")
	return s, s.submitAnswerCmd(s.sessionID, answer, s.prompt.Domain, s.prompt.Slot)
}

func (s *FlowScreen) submitAnswerCmd(sessionID, answer, domain, slot string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		res, err := backend.SubmitAnswer(context.Background(), sessionID, answer, domain, slot)
		return answerResultMsg{SessionID: sessionID, Result: res, Err: err}
	}
}

func (s *FlowScreen) handleAnswerResult(msg answerResultMsg) (screen.Screen, tea.Cmd) {
	if msg.SessionID != s.sessionID {
		return s, nil
	}
	if msg.Err != nil {
		s.qaHint = msg.Err.Error()
		s.leaveLoading(StageQA)
		s.logEvent("error", "answer: "+msg.Err.Error())
		return s, nil
	}

	if msg.Result.NeedClarification {
		// Same domain and slot, replacement question text.
		s.prompt.Question = msg.Result.Question
		s.qaHint = "Quick clarifier: keep it short."
		s.answerInput = components.NewTextInput(answerPlaceholder, false, 0)
		s.leaveLoading(StageQA)
		return s, s.answerInput.Init()
	}

	s.answerInput = components.NewTextInput(answerPlaceholder, false, 0)
	s.loadingMsg = "Thinking about what to ask next…"
	return s, s.nextQuestionCmd(msg.SessionID)
}

// submitBankAnswer scores the current test-bank question locally.
func (s *FlowScreen) submitBankAnswer() (screen.Screen, tea.Cmd) {
	res := s.nav.SubmitCurrent()
	if !res.OK {
		s.bankHint = res.Hint
		return s, nil
	}
	if res.Correct {
		s.bankHint = "Correct. Nice."
	} else {
		s.bankHint = "Saved. Not quite it."
	}
	if q := s.nav.Current(); q != nil {
		s.logEvent("bank_answer", fmt.Sprintf("%s correct=%t", q.ID, res.Correct))
	}
	return s, nil
}

// reloadQuestions refetches the bank on demand from the popups stage.
func (s *FlowScreen) reloadQuestions() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	s.busy = true
	s.bankHint = "Reloading questions…"
	return s, s.loadQuestionsCmd()
}

// resetFlow tears the whole session down and returns to the intro. Safe to
// invoke from any stage, any number of times.
func (s *FlowScreen) resetFlow() (screen.Screen, tea.Cmd) {
	if s.eventCancel != nil {
		s.eventCancel()
		s.eventCancel = nil
	}
	s.sessionID = ""
	s.domains = nil
	s.prompt = api.Prompt{}
	s.busy = false
	s.connected = false
	s.eventCh = nil
	s.stage = StageIntro
	s.loadingMsg = ""
	s.introHint = ""
	s.qaHint = ""
	s.bankHint = ""
	s.showFeed = false
	s.popupSummary = baselineSummary
	s.introInput = components.NewTextInput(introPlaceholder, false, 0)
	s.answerInput = components.NewTextInput(answerPlaceholder, false, 0)
	s.queue.Reset()
	s.nav = testbank.NewNavigator()
	s.optCursor = 0
	s.epoch++
	s.bankGen++
	s.feed.Add("reset", "flow reset")
	s.logEvent("stage", "reset to intro")
	return s, s.introInput.Init()
}

// enterLoading records the transition into the loading stage and marks the
// primary flow busy. The transition is synchronous with the triggering key.
func (s *FlowScreen) enterLoading(msg string) {
	s.stage = StageLoading
	s.loadingMsg = msg
	s.busy = true
}

func (s *FlowScreen) leaveLoading(to Stage) {
	s.stage = to
	s.busy = false
}

// logEvent journals one diagnostic record, best effort.
func (s *FlowScreen) logEvent(kind, detail string) {
	_ = s.journal.Append(context.Background(), kind, detail)
	s.log.Debug().Str("kind", kind).Str("detail", detail).Msg("flow event")
}
