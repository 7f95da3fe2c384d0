package results

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/model"
)

// PostgresSubmitter archives results into the quiz_attempts table for
// deployments that own their result store instead of posting to a REST API.
type PostgresSubmitter struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresSubmitter creates a submitter writing to pool.
func NewPostgresSubmitter(pool *pgxpool.Pool, log zerolog.Logger) *PostgresSubmitter {
	return &PostgresSubmitter{
		pool: pool,
		log:  log.With().Str("component", "postgres_submitter").Logger(),
	}
}

func (s *PostgresSubmitter) Submit(ctx context.Context, r *model.Result) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quiz_attempts
		   (id, quiz_id, quiz_title, student_name, score, correct_answers, total_questions, time_taken, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.QuizID, r.QuizTitle, r.StudentName,
		r.Score, r.CorrectAnswers, r.TotalQuestions, r.TimeTaken, r.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("archive attempt: %w", err)
	}
	return nil
}
