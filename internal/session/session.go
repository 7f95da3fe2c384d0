// Package session orchestrates one student's timed attempt at one quiz:
// loading, randomization, resume, answering, navigation, the countdown, the
// proctoring guard, scoring and the dual-write of the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/catalog"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/model"
	"github.com/quizlane/quizcore/internal/proctor"
	"github.com/quizlane/quizcore/internal/progress"
	"github.com/quizlane/quizcore/internal/random"
	"github.com/quizlane/quizcore/internal/results"
	"github.com/quizlane/quizcore/internal/timer"
)

// State enumerates the session lifecycle.
type State string

const (
	StateLoading    State = "LOADING"
	StateReady      State = "READY"
	StateInProgress State = "IN_PROGRESS"
	StateSubmitting State = "SUBMITTING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

var (
	// ErrNoQuestions is reported when the catalog (after overrides) yields an
	// empty question list. The session refuses to start rather than divide by
	// zero at scoring time.
	ErrNoQuestions = errors.New("session: quiz has no questions")
	// ErrAlreadySubmitted guards the submission routine against re-entry,
	// e.g. a timer expiry racing a manual submit.
	ErrAlreadySubmitted = errors.New("session: already submitted")
	// ErrNotActive is returned for interaction outside Ready/InProgress.
	ErrNotActive = errors.New("session: not accepting interaction")
	// ErrUnknownOption is returned when a selection does not belong to the
	// currently displayed question.
	ErrUnknownOption = errors.New("session: option does not belong to current question")
)

const defaultEngageDelay = time.Second

// Config identifies the attempt.
type Config struct {
	QuizID      int64
	StudentName string
}

// Deps are the collaborators a session consumes. Catalog, Progress,
// ResultLog, Timer and KV are required. Submitter and Guard are optional:
// a nil Submitter skips the remote write, a nil Guard runs unproctored.
type Deps struct {
	Catalog   catalog.Catalog
	Progress  *progress.Store
	ResultLog *results.Log
	Submitter results.Submitter
	Guard     *proctor.Guard
	Timer     *timer.Engine
	KV        kvstore.Store

	// OnCompleted is invoked exactly once when the session reaches
	// Completed, after the local result write is confirmed.
	OnCompleted func(*model.Result)

	// Optional countdown forwarding for the host UI. OnFinalCountdownTick is
	// where a shell hangs its audible cue.
	OnTick               func(secondsLeft int)
	OnWarning            func()
	OnFinalCountdownTick func(secondsLeft int)
}

// Session is the quiz-taking state machine. All mutation happens through its
// methods; the progress store is only a write-through mirror of the state
// held here.
type Session struct {
	cfg  Config
	deps Deps
	log  zerolog.Logger

	engageDelay time.Duration
	now         func() time.Time

	mu          sync.Mutex
	state       State
	err         error
	quiz        *model.Quiz
	questions   []model.Question
	answers     []model.Answer
	current     int
	startedAt   time.Time
	submitted   bool
	engageTimer *time.Timer
}

// Option configures a Session.
type Option func(*Session)

// WithEngageDelay overrides how long after a successful load the proctoring
// guard is engaged.
func WithEngageDelay(d time.Duration) Option {
	return func(s *Session) {
		s.engageDelay = d
	}
}

// New creates a session in the Loading state. Call Load to run it.
func New(cfg Config, deps Deps, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:  cfg,
		deps: deps,
		log: log.With().
			Str("component", "quiz_session").
			Int64("quiz_id", cfg.QuizID).
			Str("student", cfg.StudentName).
			Logger(),
		engageDelay: defaultEngageDelay,
		now:         time.Now,
		state:       StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the quiz and its questions, applies local overrides, shuffles,
// restores any saved progress, starts the countdown and schedules the
// proctoring guard. On success the session is Ready (fresh) or InProgress
// (resumed); on failure it is Failed and the error is returned.
func (s *Session) Load(ctx context.Context) error {
	quiz, err := s.deps.Catalog.GetQuiz(ctx, s.cfg.QuizID)
	if err != nil {
		return s.fail(fmt.Errorf("load quiz: %w", err))
	}

	fetched, err := s.deps.Catalog.GetQuestions(ctx, s.cfg.QuizID)
	if err != nil {
		return s.fail(fmt.Errorf("load questions: %w", err))
	}

	overrides, err := catalog.LoadOverrides(ctx, s.deps.KV)
	if err != nil {
		return s.fail(fmt.Errorf("load question overrides: %w", err))
	}

	questions := overrides.Apply(fetched)
	if len(questions) == 0 {
		return s.fail(ErrNoQuestions)
	}

	questions = random.PrepareSession(questions)

	timeLeft := quiz.TimeLimitMinutes * 60
	resumed := false
	var answers []model.Answer
	index := 0

	saved, err := s.deps.Progress.Load(ctx, s.cfg.QuizID, s.cfg.StudentName)
	switch {
	case err == nil:
		resumed = true
		answers = saved.Answers
		index = clamp(saved.CurrentQuestionIndex, 0, len(questions)-1)
		if saved.TimeLeftSeconds > 0 {
			timeLeft = saved.TimeLeftSeconds
		}
		s.log.Info().Int("answers", len(answers)).Msg("Progress restored")
	case errors.Is(err, progress.ErrNoProgress):
	default:
		// Losing the resume is recoverable; aborting the quiz is not.
		s.log.Warn().Err(err).Msg("Progress load failed, starting fresh")
	}

	s.mu.Lock()
	s.quiz = quiz
	s.questions = questions
	s.answers = answers
	s.current = index
	s.startedAt = s.now()
	if resumed {
		s.state = StateInProgress
	} else {
		s.state = StateReady
	}
	// Fullscreen requests typically need a user interaction first, so the
	// guard engages a beat after load instead of immediately.
	if s.deps.Guard != nil {
		s.engageTimer = time.AfterFunc(s.engageDelay, func() {
			s.deps.Guard.Engage(context.Background())
		})
	}
	s.mu.Unlock()

	s.deps.Timer.Start(timeLeft, timer.Callbacks{
		OnTick:               s.handleTick,
		OnWarning:            s.deps.OnWarning,
		OnFinalCountdownTick: s.deps.OnFinalCountdownTick,
		OnExpire:             s.handleExpire,
	})

	return nil
}

// SelectOption records the student's answer for the currently displayed
// question, overwriting any previous selection for it.
func (s *Session) SelectOption(ctx context.Context, optionID int64) error {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotActive
	}

	q := &s.questions[s.current]
	if !q.HasOption(optionID) {
		s.mu.Unlock()
		return ErrUnknownOption
	}

	replaced := false
	for i := range s.answers {
		if s.answers[i].QuestionID == q.ID {
			s.answers[i].SelectedOptionID = optionID
			replaced = true
			break
		}
	}
	if !replaced {
		s.answers = append(s.answers, model.Answer{QuestionID: q.ID, SelectedOptionID: optionID})
	}
	s.state = StateInProgress
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Next advances to the following question. No-op on the last question.
func (s *Session) Next(ctx context.Context) error {
	return s.navigate(ctx, +1, false)
}

// Previous moves back one question. No-op on the first question.
func (s *Session) Previous(ctx context.Context) error {
	return s.navigate(ctx, -1, false)
}

// JumpTo moves directly to the question at index, clamped to the valid range.
func (s *Session) JumpTo(ctx context.Context, index int) error {
	return s.navigate(ctx, index, true)
}

func (s *Session) navigate(ctx context.Context, target int, absolute bool) error {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateInProgress {
		s.mu.Unlock()
		return ErrNotActive
	}

	next := target
	if !absolute {
		next = s.current + target
	}
	next = clamp(next, 0, len(s.questions)-1)
	if next == s.current {
		s.mu.Unlock()
		return nil
	}

	s.current = next
	s.state = StateInProgress
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Submit finishes the attempt: scores the answers, disengages the guard,
// clears saved progress, appends the result locally and fires the remote
// submission. Exactly one submission succeeds per session; a second call
// (manual or timer-driven) gets ErrAlreadySubmitted.
func (s *Session) Submit(ctx context.Context) (*model.Result, error) {
	return s.submit(ctx)
}

// Teardown releases the timer and the proctoring guard on abnormal exit
// (student navigates away). Saved progress deliberately survives so the
// student can resume later. Safe to call multiple times.
func (s *Session) Teardown(ctx context.Context) {
	s.mu.Lock()
	if s.engageTimer != nil {
		s.engageTimer.Stop()
	}
	s.mu.Unlock()

	s.deps.Timer.Stop()
	if s.deps.Guard != nil {
		s.deps.Guard.Disengage(ctx)
	}
}

func (s *Session) handleTick(left int) {
	if s.deps.OnTick != nil {
		s.deps.OnTick(left)
	}

	s.mu.Lock()
	if (s.state != StateReady && s.state != StateInProgress) || len(s.answers) == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(context.Background(), snapshot)
}

func (s *Session) handleExpire() {
	_, err := s.submit(context.Background())
	if err != nil && !errors.Is(err, ErrAlreadySubmitted) {
		s.log.Error().Err(err).Msg("Submission on timer expiry failed")
	}
}

// snapshotLocked builds a full progress snapshot. Caller holds s.mu.
func (s *Session) snapshotLocked() *model.SessionProgress {
	answers := make([]model.Answer, len(s.answers))
	copy(answers, s.answers)
	return &model.SessionProgress{
		Answers:              answers,
		CurrentQuestionIndex: s.current,
		TimeLeftSeconds:      s.deps.Timer.Remaining(),
	}
}

// persist mirrors a snapshot into the progress store. Write failures are
// logged and swallowed: the student only loses resume capability, never the
// running quiz.
func (s *Session) persist(ctx context.Context, snapshot *model.SessionProgress) {
	if err := s.deps.Progress.Save(ctx, s.cfg.QuizID, s.cfg.StudentName, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("Progress autosave failed")
	}
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()

	s.log.Error().Err(err).Msg("Session failed")
	return err
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the session to Failed, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Quiz returns the loaded quiz metadata.
func (s *Session) Quiz() *model.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// Questions returns the questions in this session's presentation order.
func (s *Session) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// CurrentIndex returns the index of the displayed question.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the displayed question, or nil before load.
func (s *Session) CurrentQuestion() *model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.questions) {
		return nil
	}
	q := s.questions[s.current]
	return &q
}

// Answers returns a copy of the current answer list.
func (s *Session) Answers() []model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// TimeLeft returns the countdown's remaining seconds.
func (s *Session) TimeLeft() int {
	return s.deps.Timer.Remaining()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
