package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quizlane/quizcore/internal/model"
)

// HTTPSubmitter posts results to the quiz-attempts REST endpoint.
type HTTPSubmitter struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSubmitter creates a submitter against baseURL. A nil httpClient
// gets a 5s-timeout default.
func NewHTTPSubmitter(baseURL string, httpClient *http.Client) *HTTPSubmitter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPSubmitter{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, result *model.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/quiz-attempts", s.baseURL), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("submit result: status %d", resp.StatusCode)
	}
	return nil
}
