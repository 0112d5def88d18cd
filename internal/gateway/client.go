// Package gateway is the HTTP client for the extraction gateway's /chat route.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BuzzLyutic/taskchat/internal/model"
)

const maxResponseBytes = 4 << 20

// Result is a response that matched one of the two contracts.
type Result struct {
	Epics []model.Epic `json:"epics,omitempty" yaml:"epics,omitempty"`
	Tasks []model.Task `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// ParseError reports a response body that matches neither contract,
// including an empty epics or tasks list.
type ParseError struct {
	Details string
}

func (e *ParseError) Error() string {
	return "unexpected response from gateway: " + e.Details
}

// GatewayError reports a non-2xx status from the gateway.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the gateway at baseURL. A nil httpClient
// means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Chat(ctx context.Context, message string) (Result, error) {
	body, err := json.Marshal(model.ChatRequest{Message: message})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post /chat: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return Result{}, &GatewayError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	return ParseResponse(raw)
}

// ParseResponse checks a /chat body against the epic contract or, when no
// "epics" key is present, the task-only contract.
func ParseResponse(raw []byte) (Result, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return Result{}, &ParseError{Details: err.Error()}
	}

	if _, ok := keys["epics"]; ok {
		var list model.EpicList
		if err := json.Unmarshal(raw, &list); err != nil {
			return Result{}, &ParseError{Details: err.Error()}
		}
		list.Normalize()
		if err := list.Validate(); err != nil {
			return Result{}, &ParseError{Details: err.Error()}
		}
		return Result{Epics: list.Epics}, nil
	}

	if _, ok := keys["tasks"]; ok {
		var list model.TaskList
		if err := json.Unmarshal(raw, &list); err != nil {
			return Result{}, &ParseError{Details: err.Error()}
		}
		list.Normalize()
		if err := list.Validate(); err != nil {
			return Result{}, &ParseError{Details: err.Error()}
		}
		return Result{Tasks: list.Tasks}, nil
	}

	return Result{}, &ParseError{Details: `body has neither "epics" nor "tasks"`}
}
