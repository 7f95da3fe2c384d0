package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/quizlane/quizcore/internal/catalog"
	"github.com/quizlane/quizcore/internal/config"
	"github.com/quizlane/quizcore/internal/database"
	"github.com/quizlane/quizcore/internal/kvstore"
	"github.com/quizlane/quizcore/internal/logger"
	"github.com/quizlane/quizcore/internal/model"
	"github.com/quizlane/quizcore/internal/proctor"
	"github.com/quizlane/quizcore/internal/progress"
	"github.com/quizlane/quizcore/internal/results"
	"github.com/quizlane/quizcore/internal/session"
	"github.com/quizlane/quizcore/internal/timer"
)

func main() {
	var (
		quizID  int64
		student string
	)
	flag.Int64Var(&quizID, "quiz", 0, "Quiz ID to take")
	flag.StringVar(&student, "student", "", "Student name")
	flag.Parse()

	if quizID <= 0 || student == "" {
		fmt.Fprintln(os.Stderr, "Usage: quizrun -quiz <id> -student <name>")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv := openStore(ctx, cfg, log)
	remote := catalog.NewHTTPCatalog(cfg.CatalogBaseURL, nil)
	cat := catalog.NewFallbackCatalog(remote, kv, log)

	submitter, closeSubmitter := openSubmitter(ctx, cfg, log)
	defer closeSubmitter()

	guard := proctor.NewGuard(proctor.NoopDisplay{}, log,
		proctor.WithReentryDelay(cfg.ProctorReentryDelay))

	done := make(chan *model.Result, 1)
	sess := session.New(
		session.Config{QuizID: quizID, StudentName: student},
		session.Deps{
			Catalog:     cat,
			Progress:    progress.New(kv, log),
			ResultLog:   results.NewLog(kv, log),
			Submitter:   submitter,
			Guard:       guard,
			Timer:       timer.New(log),
			KV:          kv,
			OnCompleted: func(r *model.Result) { done <- r },
			OnWarning: func() {
				fmt.Println("\n*** One minute remaining! ***")
			},
			OnFinalCountdownTick: func(left int) {
				// Terminal bell as the audible countdown cue.
				fmt.Printf("\a%d...\n", left)
			},
		},
		log,
		session.WithEngageDelay(cfg.ProctorEngageDelay),
	)
	defer sess.Teardown(context.Background())

	if err := sess.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Could not start quiz session")
	}

	quiz := sess.Quiz()
	fmt.Printf("%s (%d questions, %d minutes)\n", quiz.Title, len(sess.Questions()), quiz.TimeLimitMinutes)
	fmt.Println("Commands: 1..9 select option, n(ext), p(rev), g(oto) <num>, s(ubmit), q(uit)")

	go runPrompt(ctx, sess, log)

	select {
	case result := <-done:
		printResult(result)
	case <-ctx.Done():
		fmt.Println("\nQuiz interrupted. Your progress is saved; run again to resume.")
	}
}

// openStore prefers Redis and falls back to process-local memory, which loses
// resume-across-runs but keeps the quiz usable.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) kvstore.Store {
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory storage")
		return kvstore.NewMemory()
	}
	return kvstore.NewRedis(rdb)
}

// openSubmitter picks the remote result sink: PostgreSQL when DATABASE_URL is
// set, the REST endpoint otherwise.
func openSubmitter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (results.Submitter, func()) {
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, submitting over HTTP")
			return results.NewHTTPSubmitter(cfg.CatalogBaseURL, nil), func() {}
		}
		return results.NewPostgresSubmitter(pool, log), pool.Close
	}
	return results.NewHTTPSubmitter(cfg.CatalogBaseURL, nil), func() {}
}

func runPrompt(ctx context.Context, sess *session.Session, log zerolog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	showQuestion(sess)

	for scanner.Scan() {
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			showQuestion(sess)
			continue
		}

		var err error
		switch fields[0] {
		case "n", "next":
			err = sess.Next(ctx)
		case "p", "prev":
			err = sess.Previous(ctx)
		case "g", "goto":
			if len(fields) < 2 {
				fmt.Println("goto needs a question number")
				continue
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Println("goto needs a question number")
				continue
			}
			err = sess.JumpTo(ctx, n-1)
		case "s", "submit":
			if _, err = sess.Submit(ctx); err == nil {
				return
			}
		case "q", "quit":
			fmt.Println("Leaving the quiz. Progress is saved.")
			sess.Teardown(ctx)
			os.Exit(0)
		default:
			n, convErr := strconv.Atoi(fields[0])
			if convErr != nil {
				fmt.Println("Unknown command")
				continue
			}
			err = selectByNumber(ctx, sess, n)
		}

		if err != nil {
			fmt.Printf("Error: %v\n", err)
			log.Debug().Err(err).Msg("Command failed")
			continue
		}
		if sess.State() == session.StateCompleted {
			return
		}
		showQuestion(sess)
	}
}

// selectByNumber maps a 1-based option number on the displayed question to
// its option ID.
func selectByNumber(ctx context.Context, sess *session.Session, n int) error {
	q := sess.CurrentQuestion()
	if q == nil {
		return fmt.Errorf("no question displayed")
	}
	if n < 1 || n > len(q.Options) {
		return fmt.Errorf("option out of range: pick 1-%d", len(q.Options))
	}
	return sess.SelectOption(ctx, q.Options[n-1].ID)
}

func showQuestion(sess *session.Session) {
	q := sess.CurrentQuestion()
	if q == nil {
		return
	}

	selected := int64(-1)
	for _, a := range sess.Answers() {
		if a.QuestionID == q.ID {
			selected = a.SelectedOptionID
		}
	}

	left := sess.TimeLeft()
	fmt.Printf("\n[%d:%02d left] Question %d of %d\n",
		left/60, left%60, sess.CurrentIndex()+1, len(sess.Questions()))
	fmt.Println(q.QuestionText)
	for i, opt := range q.Options {
		marker := " "
		if opt.ID == selected {
			marker = "*"
		}
		fmt.Printf(" %s %d) %s\n", marker, i+1, opt.OptionText)
	}
	fmt.Print("> ")
}

func printResult(r *model.Result) {
	fmt.Println("\nQuiz complete!")
	fmt.Printf("Score: %d%% (%d of %d correct)\n", r.Score, r.CorrectAnswers, r.TotalQuestions)
	fmt.Printf("Time taken: %s\n", r.TimeTaken)
}
