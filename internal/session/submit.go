package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/model"
)

const remoteSubmitTimeout = 10 * time.Second

// submit is the single submission routine both the manual action and the
// timer expiry converge on. The submitted flag makes re-entry impossible:
// whichever path gets there first wins, the other gets ErrAlreadySubmitted.
func (s *Session) submit(ctx context.Context) (*model.Result, error) {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if s.state != StateReady && s.state != StateInProgress {
		s.mu.Unlock()
		return nil, ErrNotActive
	}
	s.submitted = true
	s.state = StateSubmitting
	if s.engageTimer != nil {
		s.engageTimer.Stop()
	}

	quiz := s.quiz
	questions := s.questions
	answers := make([]model.Answer, len(s.answers))
	copy(answers, s.answers)
	elapsed := s.now().Sub(s.startedAt)
	s.mu.Unlock()

	correct := countCorrect(questions, answers)
	total := len(questions)

	result := &model.Result{
		ID:             uuid.New(),
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		StudentName:    s.cfg.StudentName,
		Score:          int(math.Round(float64(correct) / float64(total) * 100)),
		CorrectAnswers: correct,
		TotalQuestions: total,
		CompletedAt:    s.now().UTC(),
		TimeTaken:      formatElapsed(elapsed),
	}

	s.deps.Timer.Stop()
	if s.deps.Guard != nil {
		s.deps.Guard.Disengage(ctx)
	}

	// Progress and retake cleanup are best-effort; a failure here must not
	// block the result from being recorded.
	if err := s.deps.Progress.Clear(ctx, s.cfg.QuizID, s.cfg.StudentName); err != nil {
		s.log.Warn().Err(err).Msg("Clearing saved progress failed")
	}
	if err := s.deps.KV.Set(ctx, config.StorageKey.RetakePermissionsKey(), []byte("[]")); err != nil {
		s.log.Warn().Err(err).Msg("Resetting retake permissions failed")
	}

	// The local result log is authoritative for completion. If this write
	// fails the result would be lost, so the session fails instead of
	// pretending the attempt completed.
	if err := s.deps.ResultLog.AppendResult(ctx, result); err != nil {
		return nil, s.fail(fmt.Errorf("record result locally: %w", err))
	}
	if err := s.deps.ResultLog.AppendAttempt(ctx, result); err != nil {
		s.log.Warn().Err(err).Msg("Appending to attempts log failed")
	}

	s.mu.Lock()
	s.state = StateCompleted
	s.mu.Unlock()

	s.log.Info().
		Int("score", result.Score).
		Int("correct", correct).
		Int("total", total).
		Msg("Quiz submitted")

	// Remote submission is fire-and-forget relative to Completed: its outcome
	// only decides whether a server-side copy also exists.
	if s.deps.Submitter != nil {
		go s.submitRemote(result)
	}

	if s.deps.OnCompleted != nil {
		s.deps.OnCompleted(result)
	}
	return result, nil
}

func (s *Session) submitRemote(result *model.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteSubmitTimeout)
	defer cancel()

	if err := s.deps.Submitter.Submit(ctx, result); err != nil {
		s.log.Warn().Err(err).Msg("Remote submission failed, local result is authoritative")
		return
	}
	s.log.Debug().Msg("Remote submission succeeded")
}

// countCorrect counts answers whose selection is the single correct option of
// their question. Unanswered questions count as incorrect, and so does any
// selection on a question with zero or multiple correct options.
func countCorrect(questions []model.Question, answers []model.Answer) int {
	selected := make(map[int64]int64, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOptionID
	}

	correct := 0
	for i := range questions {
		optionID, answered := selected[questions[i].ID]
		if !answered {
			continue
		}
		want, ok := questions[i].CorrectOption()
		if !ok {
			continue
		}
		if want.ID == optionID {
			correct++
		}
	}
	return correct
}

// formatElapsed renders a wall-clock duration as "M:SS". The elapsed time is
// measured from the session's start, independent of the countdown, so a
// resumed session still reports its true total.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
