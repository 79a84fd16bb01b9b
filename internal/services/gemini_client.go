package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/pkg/config"
)

// Delegate is an external text-generation model. Implementations must be safe
// for concurrent use.
type Delegate interface {
	// Generate sends a single prompt and expects a JSON document back.
	Generate(ctx context.Context, prompt string) (string, error)
	// Chat continues a conversation whose prior turns are given as history.
	Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error)
}

// ErrDelegateUnavailable is returned when the circuit breaker rejects a call.
var ErrDelegateUnavailable = errors.New("ai delegate unavailable")

// GeminiClient talks to Google Gemini with a rate limiter, a circuit breaker
// and a per-call deadline.
type GeminiClient struct {
	client         *genai.Client
	modelName      string
	timeout        time.Duration
	limiter        *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *logrus.Logger
}

// NewGeminiClient creates a Gemini delegate from configuration.
func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*GeminiClient, error) {
	if !cfg.GeminiConfigured() {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(cfg.GeminiAPIKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	cb := newCircuitBreaker("gemini-api", cfg.CircuitBreakerThreshold, logger)

	perMinute := cfg.AIRateLimit
	if perMinute <= 0 {
		perMinute = 60
	}

	return &GeminiClient{
		client:         client,
		modelName:      cfg.GeminiModel,
		timeout:        cfg.AITimeout,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		circuitBreaker: cb,
		logger:         logger,
	}, nil
}

// newCircuitBreaker opens after threshold consecutive failures. A caller
// cancelling its own context is not an upstream failure.
func newCircuitBreaker(name string, threshold int, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	if threshold < 1 {
		threshold = 1
	}
	limit := uint32(threshold)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("Gemini API circuit breaker state changed")
		},
	})
}

// Generate asks the model for a JSON lineup document.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.execute(ctx, "generate", func(ctx context.Context) (string, error) {
		model := c.client.GenerativeModel(c.modelName)
		model.SetTemperature(0.2)
		model.ResponseMIMEType = "application/json"

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		text, err := extractTextFromResponse(resp)
		if err != nil {
			return "", err
		}
		return cleanJSONBlock(text), nil
	})
}

// Chat replays history into a fresh chat session and sends message.
func (c *GeminiClient) Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error) {
	return c.execute(ctx, "chat", func(ctx context.Context) (string, error) {
		model := c.client.GenerativeModel(c.modelName)
		model.SetTemperature(0.7)

		cs := model.StartChat()
		cs.History = toGenaiHistory(history)

		resp, err := cs.SendMessage(ctx, genai.Text(message))
		if err != nil {
			return "", fmt.Errorf("failed to send chat message: %w", err)
		}
		return extractTextFromResponse(resp)
	})
}

func (c *GeminiClient) execute(ctx context.Context, op string, call func(context.Context) (string, error)) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return call(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrDelegateUnavailable, err)
		}
		c.logger.WithFields(logrus.Fields{
			"operation": op,
			"duration":  time.Since(start).String(),
			"error":     err.Error(),
		}).Warn("Gemini call failed")
		return "", err
	}

	c.logger.WithFields(logrus.Fields{
		"operation": op,
		"duration":  time.Since(start).String(),
	}).Debug("Gemini call completed")

	return result.(string), nil
}

// CircuitState reports the breaker state, e.g. "closed" or "open".
func (c *GeminiClient) CircuitState() string {
	return c.circuitBreaker.State().String()
}

// IsHealthy is false while the breaker is open.
func (c *GeminiClient) IsHealthy() bool {
	return c.circuitBreaker.State() != gobreaker.StateOpen
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func toGenaiHistory(history []models.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  string(turn.Role),
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return contents
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
