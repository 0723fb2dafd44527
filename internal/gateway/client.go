package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/rs/zerolog"
)

// Client issues authenticated requests to the upstream quiz-service.
// It holds no session state: the bearer token is passed per call and only
// held for the duration of that request.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New creates a Client for the given base URL. Every request is bounded by
// the supplied timeout.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "gateway").Logger(),
	}
}

// ─── Auth ───────────────────────────────────────────────────────────────────

// Login exchanges credentials for a token bundle.
func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out model.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account upstream.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register/", "", req, nil)
}

// ─── Student ────────────────────────────────────────────────────────────────

// AssignedQuizzes lists the quizzes assigned to the calling student.
func (c *Client) AssignedQuizzes(ctx context.Context, token string) ([]model.Quiz, error) {
	var out []model.Quiz
	if err := c.do(ctx, http.MethodGet, "/student/quizzes/assigned/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetQuiz fetches one quiz with its nested questions.
func (c *Client) GetQuiz(ctx context.Context, token string, quizID int64) (*model.Quiz, error) {
	var out model.Quiz
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/quizzes/%d/", quizID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartAttempt asks the quiz-service to open a new attempt.
func (c *Client) StartAttempt(ctx context.Context, token string, quizID int64) (*model.Attempt, error) {
	var out model.Attempt
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/quizzes/%d/start/", quizID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAttempt fetches the current server-side snapshot of an attempt.
func (c *Client) GetAttempt(ctx context.Context, token string, attemptID int64) (*model.Attempt, error) {
	var out model.Attempt
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/attempts/%d/", attemptID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswer stores (or overwrites) the answer for one question.
func (c *Client) SubmitAnswer(ctx context.Context, token string, attemptID int64, payload model.SubmitAnswerPayload) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/attempts/%d/answer/", attemptID), token, payload, nil)
}

// FinishAttempt requests server-side grading and closure of the attempt.
func (c *Client) FinishAttempt(ctx context.Context, token string, attemptID int64) (*model.FinishResult, error) {
	var out model.FinishResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/attempts/%d/finish/", attemptID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewWrongAnswers lists the incorrectly-answered questions of a finished attempt.
func (c *Client) ReviewWrongAnswers(ctx context.Context, token string, attemptID int64) ([]model.ReviewEntry, error) {
	var out []model.ReviewEntry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/attempts/%d/review/", attemptID), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Teacher ────────────────────────────────────────────────────────────────

// TeacherSummary lists the calling teacher's quizzes with attempt counts.
func (c *Client) TeacherSummary(ctx context.Context, token string) ([]model.QuizSummary, error) {
	var out []model.QuizSummary
	if err := c.do(ctx, http.MethodGet, "/teacher/quizzes/summary/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QuizAttempts lists all attempts on one of the teacher's quizzes.
func (c *Client) QuizAttempts(ctx context.Context, token string, quizID int64) ([]model.Attempt, error) {
	var out []model.Attempt
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teacher/quizzes/%d/attempts/", quizID), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuiz creates a quiz upstream and returns the stored entity.
func (c *Client) CreateQuiz(ctx context.Context, token string, payload model.CreateQuizPayload) (*model.Quiz, error) {
	var out model.Quiz
	if err := c.do(ctx, http.MethodPost, "/quizzes/", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuiz deletes a quiz and, by upstream cascade, its questions.
func (c *Client) DeleteQuiz(ctx context.Context, token string, quizID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/quizzes/%d/", quizID), token, nil, nil)
}

// ListQuestions lists the questions of a quiz in order.
func (c *Client) ListQuestions(ctx context.Context, token string, quizID int64) ([]model.Question, error) {
	var out []model.Question
	path := "/questions/?" + url.Values{"quiz": {fmt.Sprintf("%d", quizID)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuestion creates a question record and returns it with its new id.
func (c *Client) CreateQuestion(ctx context.Context, token string, payload model.CreateQuestionPayload) (*model.Question, error) {
	var out model.Question
	if err := c.do(ctx, http.MethodPost, "/questions/", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuestion deletes a question and its choices.
func (c *Client) DeleteQuestion(ctx context.Context, token string, questionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d/", questionID), token, nil, nil)
}

// CreateChoice creates one choice record referencing an existing question.
func (c *Client) CreateChoice(ctx context.Context, token string, payload model.CreateChoicePayload) (*model.Choice, error) {
	var out model.Choice
	if err := c.do(ctx, http.MethodPost, "/choices/", token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ─── Transport ──────────────────────────────────────────────────────────────

// do performs one request/response round trip. Any failure comes back as a
// *Error so callers handle transport and HTTP rejections uniformly.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Upstream transport failure")
		return &Error{Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		detail := readDetail(res.Body)
		c.log.Warn().
			Int("status", res.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("detail", detail).
			Msg("Upstream rejected request")
		return &Error{StatusCode: res.StatusCode, Message: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{StatusCode: res.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// readDetail extracts the upstream "detail" message from an error body,
// falling back to the raw text when the body is not the expected JSON shape.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return strings.TrimSpace(string(raw))
}
