package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionProvider supplies the acting user's identity. It is injected at
// construction instead of read from process globals, so a logout tears the
// client down cleanly with its owner.
type SessionProvider interface {
	IsAuthenticated() bool
	Token() string
	UserId() int
	IsAdmin() bool
}

// Requester is the generic authenticated request shape every typed operation
// is built on. Retry/backoff policy lives behind it, not in this module.
type Requester interface {
	Execute(ctx context.Context, method string, path string, payload any) (json.RawMessage, error)
}

type Client struct {
	baseURL string
	session SessionProvider
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(session SessionProvider) (*Client, error) {
	if session == nil {
		return nil, errors.New("session provider is required")
	}
	return &Client{
		baseURL: config.ApiBaseURL(),
		session: session,
		http:    &http.Client{Timeout: config.RequestTimeout()},
		logger:  config.GetLogger(),
	}, nil
}

// ServerError carries the server's own explanation of a non-2xx response.
// Detail is the best-effort extraction of the body's detail/message field;
// users never see a raw body or a stack.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed (%d)", e.StatusCode)
}

// PublicMessage is what a user-facing banner may show for an error: the
// server's detail when there is one, a stock phrase otherwise.
func PublicMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Detail != "" {
		return serverErr.Detail
	}
	if errors.Is(err, utils.ErrorNotAuthenticated) {
		return "You must be logged in to do that"
	}
	return "Something went wrong, please try again"
}

func (c *Client) Execute(ctx context.Context, method string, path string, payload any) (json.RawMessage, error) {
	if !c.session.IsAuthenticated() {
		return nil, utils.ErrorNotAuthenticated
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
	}
	req.Header.Set("Authorization", "Token "+c.session.Token())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-Id", correlationId)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		config.LogError(c.logger, "api", "Execute", method+" "+path, correlationId,
			fmt.Errorf("server returned %d", resp.StatusCode))
		return nil, decodeServerError(resp.StatusCode, raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// decodeServerError pulls the explanation out of an error body, trying the
// detail field first and message second, per the server's two error shapes.
func decodeServerError(statusCode int, body []byte) error {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	serverErr := &ServerError{StatusCode: statusCode}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			serverErr.Detail = parsed.Detail
		} else if parsed.Message != "" {
			serverErr.Detail = parsed.Message
		}
	}
	return serverErr
}
