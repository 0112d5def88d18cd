package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchat/internal/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrExtraction = errors.New("extraction failed")
)

const (
	DefaultMaxAttempts = 3
	// RetryDelay is the base delay between attempts; transient model errors back off linearly.
	RetryDelay = 500 * time.Millisecond
	// maxFeedbackOutput caps how much of a rejected reply is echoed back to the model.
	maxFeedbackOutput = 500
)

// Generator is the part of an Eino chat model the service calls.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Extraction is the outcome of one extract call. Exactly one of Epics or
// Tasks is populated, depending on Mode.
type Extraction struct {
	Mode     model.Mode
	Epics    []model.Epic
	Tasks    []model.Task
	Attempts int
}

type ExtractionService struct {
	model       Generator
	logger      *zap.Logger
	maxAttempts int
	retryDelay  time.Duration
}

func NewExtractionService(m Generator, logger *zap.Logger, maxAttempts int) *ExtractionService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ExtractionService{
		model:       m,
		logger:      logger,
		maxAttempts: maxAttempts,
		retryDelay:  RetryDelay,
	}
}

func (s *ExtractionService) Extract(ctx context.Context, message string, mode model.Mode) (Extraction, error) {
	if strings.TrimSpace(message) == "" {
		return Extraction{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	s.logger.Info("extracting from message", zap.String("mode", string(mode)), zap.String("message", message))

	switch mode {
	case model.ModeEpics:
		list, attempts, err := generate[model.EpicList](ctx, s, epicPrompt, message)
		if err != nil {
			return Extraction{Mode: mode, Attempts: attempts}, err
		}
		return Extraction{Mode: mode, Epics: list.Epics, Attempts: attempts}, nil
	case model.ModeTasks:
		list, attempts, err := generate[model.TaskList](ctx, s, taskPrompt, message)
		if err != nil {
			return Extraction{Mode: mode, Attempts: attempts}, err
		}
		return Extraction{Mode: mode, Tasks: list.Tasks, Attempts: attempts}, nil
	default:
		return Extraction{}, fmt.Errorf("%w: unknown mode %q", ErrValidation, mode)
	}
}

// contract is a response body that can repair and check itself.
type contract[T any] interface {
	*T
	Normalize()
	Validate() error
}

// generate asks the model for T until a reply parses and validates or the
// attempt budget runs out. Parse and validation failures are fed back into
// the next prompt.
func generate[T any, PT contract[T]](ctx context.Context, s *ExtractionService, tmpl *template.Template, message string) (T, int, error) {
	var zero T
	start := time.Now()
	in := promptInput{Message: message}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, in); err != nil {
			return zero, attempt, fmt.Errorf("execute template: %w", err)
		}

		resp, err := s.model.Generate(ctx, []*schema.Message{schema.UserMessage(buf.String())}, einomodel.WithTemperature(0))
		if err != nil {
			lastErr = err
			s.logger.Warn("model call failed", zap.Int("attempt", attempt), zap.Error(err))
			if ctx.Err() != nil || !isTransientError(err) || attempt == s.maxAttempts {
				return zero, attempt, fmt.Errorf("%w: %w", ErrExtraction, err)
			}
			if err := sleep(ctx, s.retryDelay*time.Duration(attempt)); err != nil {
				return zero, attempt, fmt.Errorf("%w: %w", ErrExtraction, err)
			}
			continue
		}

		s.logger.Info("model response", zap.Int("attempt", attempt), zap.String("raw", resp.Content))

		result, err := extractJSON[T](resp.Content)
		if err != nil {
			lastErr = err
			in.Feedback = feedback("JSON parse error", err.Error(), resp.Content)
			continue
		}

		PT(&result).Normalize()
		if err := PT(&result).Validate(); err != nil {
			lastErr = err
			in.Feedback = feedback("Schema validation error", err.Error(), resp.Content)
			continue
		}

		s.logger.Info("extraction succeeded",
			zap.Int("attempts", attempt),
			zap.Duration("took", time.Since(start)),
		)
		return result, attempt, nil
	}

	return zero, s.maxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrExtraction, s.maxAttempts, lastErr)
}

func feedback(kind, msg, raw string) string {
	if len(raw) > maxFeedbackOutput {
		raw = raw[:maxFeedbackOutput] + "... [truncated]"
	}
	return fmt.Sprintf(`PREVIOUS ATTEMPT FAILED - PLEASE FIX

Error type: %s
Error: %s

Your previous output:
%s

Reply again with valid JSON matching the required shape.`, kind, msg, raw)
}

func isTransientError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "429", "too many requests", "timeout", "connection", "temporary", "503", "502"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
