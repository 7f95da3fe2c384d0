package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quizlane/quizcore/internal/model"
	"github.com/quizlane/quizcore/internal/validator"
)

// HTTPCatalog fetches quizzes and questions from the catalog REST API.
// Payloads are validated on entry; a malformed quiz or question never reaches
// the session.
type HTTPCatalog struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPCatalog creates a catalog client against baseURL (e.g.
// "http://localhost:8080/api"). A nil httpClient gets a 5s-timeout default.
func NewHTTPCatalog(baseURL string, httpClient *http.Client) *HTTPCatalog {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPCatalog{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPCatalog) GetQuiz(ctx context.Context, quizID int64) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := c.getJSON(ctx, fmt.Sprintf("%s/quizzes/%d", c.baseURL, quizID), &quiz); err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", quizID, err)
	}

	if fields := validator.Struct(&quiz); fields != nil {
		return nil, fmt.Errorf("get quiz %d: invalid payload: %v", quizID, fields)
	}
	return &quiz, nil
}

func (c *HTTPCatalog) GetQuestions(ctx context.Context, quizID int64) ([]model.Question, error) {
	var questions []model.Question
	if err := c.getJSON(ctx, fmt.Sprintf("%s/quizzes/%d/questions", c.baseURL, quizID), &questions); err != nil {
		return nil, fmt.Errorf("get questions for quiz %d: %w", quizID, err)
	}

	for i := range questions {
		if fields := validator.Struct(&questions[i]); fields != nil {
			return nil, fmt.Errorf("get questions for quiz %d: invalid question %d: %v",
				quizID, questions[i].ID, fields)
		}
	}
	return questions, nil
}

func (c *HTTPCatalog) getJSON(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found")
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
