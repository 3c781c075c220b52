// Package client is the HTTP adapter for the remote product/report/AI API.
// It owns the base URL, attaches the bearer token from the session store,
// unwraps response envelopes, and globally intercepts 401 responses by
// clearing persisted credentials.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/models"
	"github.com/altibbe/transparency/internal/normalize"
	"github.com/altibbe/transparency/internal/questions"
)

// API endpoint paths, relative to the base URL.
const (
	pathProducts          = "/api/products"
	pathReports           = "/api/reports"
	pathGenerateQuestions = "/api/ai/generate-questions"
	pathTransparencyScore = "/api/ai/transparency-score"
	pathAnalyzeProduct    = "/api/ai/analyze-product"
	pathRegister          = "/api/auth/register"
	pathLogin             = "/api/auth/login"
	pathProfile           = "/api/auth/profile"
)

// SessionSource supplies the bearer token and absorbs the 401 interception.
type SessionSource interface {
	Token() string
	Clear() error
}

// Client calls the remote API. All methods issue a single request with no
// retry; failures surface as *APIError for the caller to report.
type Client struct {
	base    string
	http    *http.Client
	session SessionSource
	log     *zap.Logger
}

func New(baseURL string, session SessionSource, log *zap.Logger, timeout time.Duration) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &APIError{Code: ErrorUnavailable, Message: fmt.Sprintf("%s %s: %v", method, path, err)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Code: ErrorUnavailable, Message: fmt.Sprintf("%s %s: read response: %v", method, path, err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Global 401 rule: drop persisted credentials no matter which call
		// tripped it, then let the caller route the user back to login.
		if c.session != nil {
			if cerr := c.session.Clear(); cerr != nil {
				c.log.Warn("clear credentials after 401", zap.Error(cerr))
			}
		}
		return nil, &APIError{Code: ErrorUnauthorized, Status: resp.StatusCode, Message: "session expired, please log in again"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Code:    codeForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(payload, resp.StatusCode, method, path),
		}
	}
	return payload, nil
}

func errorMessage(payload []byte, status int, method, path string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("%s %s: unexpected status %d", method, path, status)
}

// authResponse is the top-level (non-enveloped) shape of the auth endpoints.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account. The token may be empty when the server
// reports success without issuing one; callers treat that as degraded.
func (c *Client) Register(ctx context.Context, name, email, password, company string) (string, *models.User, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	if company != "" {
		payload["company"] = company
	}
	raw, err := c.do(ctx, http.MethodPost, pathRegister, payload)
	if err != nil {
		return "", nil, err
	}
	var out authResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", nil, &APIError{Code: ErrorInvalid, Message: "register: malformed response"}
	}
	return out.Token, out.User, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	raw, err := c.do(ctx, http.MethodPost, pathLogin, map[string]string{"email": email, "password": password})
	if err != nil {
		return "", nil, err
	}
	var out authResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", nil, &APIError{Code: ErrorInvalid, Message: "login: malformed response"}
	}
	return out.Token, out.User, nil
}

// Profile fetches the authenticated user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	raw, err := c.do(ctx, http.MethodGet, pathProfile, nil)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(normalize.Unwrap(raw), &u); err != nil {
		return nil, &APIError{Code: ErrorInvalid, Message: "profile: malformed response"}
	}
	return &u, nil
}

// CreateProduct submits the draft (ingredients already normalized by the
// caller) and returns the created product identifier. An empty identifier
// with a nil error is the degraded-success path the workflow tolerates.
func (c *Client) CreateProduct(ctx context.Context, draft *models.ProductDraft) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, pathProducts, draft)
	if err != nil {
		return "", err
	}
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == nil {
		c.log.Warn("create product: no entity in response")
		return "", nil
	}
	return normalize.EntityID(envelope.Data), nil
}

// GetProduct fetches one product by identifier.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.ProductInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, pathProducts+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	var p models.ProductInfo
	if err := json.Unmarshal(normalize.Unwrap(raw), &p); err != nil {
		return nil, &APIError{Code: ErrorInvalid, Message: "product: malformed response"}
	}
	return &p, nil
}

// ListProducts fetches all products; enveloped or bare arrays both work.
func (c *Client) ListProducts(ctx context.Context) ([]*models.ProductInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, pathProducts, nil)
	if err != nil {
		return nil, err
	}
	var out []*models.ProductInfo
	if err := json.Unmarshal(normalize.Unwrap(raw), &out); err != nil {
		return nil, nil
	}
	return out, nil
}

// GenerateQuestions asks the AI service for follow-up questions. Both the
// `{questions: [...]}` and `{data: {questions: [...]}}` shapes are accepted;
// a response with neither yields an empty slice, not an error.
func (c *Client) GenerateQuestions(ctx context.Context, draft *models.ProductDraft) ([]questions.RawQuestion, error) {
	raw, err := c.do(ctx, http.MethodPost, pathGenerateQuestions, map[string]any{"productData": draft})
	if err != nil {
		return nil, err
	}
	var direct struct {
		Questions []questions.RawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &direct); err == nil && len(direct.Questions) > 0 {
		return direct.Questions, nil
	}
	var enveloped struct {
		Data struct {
			Questions []questions.RawQuestion `json:"questions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &enveloped); err == nil {
		return enveloped.Data.Questions, nil
	}
	return nil, nil
}

// TransparencyScore asks the AI service to score a draft directly.
func (c *Client) TransparencyScore(ctx context.Context, draft *models.ProductDraft) (int, error) {
	raw, err := c.do(ctx, http.MethodPost, pathTransparencyScore, map[string]any{"productData": draft})
	if err != nil {
		return 0, err
	}
	var obj map[string]any
	if err := json.Unmarshal(normalize.Unwrap(raw), &obj); err != nil {
		return 0, nil
	}
	return normalize.Score(obj), nil
}

// AnalyzeProduct asks the AI service for a full analysis of a draft.
func (c *Client) AnalyzeProduct(ctx context.Context, draft *models.ProductDraft) (*models.Report, error) {
	raw, err := c.do(ctx, http.MethodPost, pathAnalyzeProduct, map[string]any{"productData": draft})
	if err != nil {
		return nil, err
	}
	return normalize.Report(raw), nil
}

// CreateReport submits the answers for a created product and returns the
// normalized report. The report may come back without an identifier; the
// workflow decides what that means.
func (c *Client) CreateReport(ctx context.Context, productID string, answers models.AnswerSet) (*models.Report, error) {
	raw, err := c.do(ctx, http.MethodPost, pathReports, map[string]any{
		"productId": productID,
		"answers":   answers,
	})
	if err != nil {
		return nil, err
	}
	return normalize.Report(raw), nil
}

// GetReport fetches one report by identifier.
func (c *Client) GetReport(ctx context.Context, id string) (*models.Report, error) {
	raw, err := c.do(ctx, http.MethodGet, pathReports+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	r := normalize.Report(raw)
	if r == nil {
		return nil, &APIError{Code: ErrorNotFound, Message: "report not found"}
	}
	return r, nil
}

// ListReports fetches all report summaries.
func (c *Client) ListReports(ctx context.Context) ([]*models.ReportSummary, error) {
	raw, err := c.do(ctx, http.MethodGet, pathReports, nil)
	if err != nil {
		return nil, err
	}
	return normalize.ReportList(raw), nil
}
