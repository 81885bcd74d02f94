// Package ai provides the generation client: the single boundary for all
// calls to the external generative-AI service. Every operation shares
// the same retry policy and the same tolerant JSON extraction, so
// upstream prompt or formatting churn never leaks past this package.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client implements outbound.AIService against an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	cfg      config.AIConfig
	client   *http.Client
	logger   *zap.Logger
	validate *validator.Validate
	limiter  *rate.Limiter

	mu  sync.Mutex
	rng *rand.Rand
}

// NewClient creates a new generation client.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger:   logger.Named("ai-client"),
		validate: validator.New(),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerMin)/60, 1),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// OpenAI-compatible API structures

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text messages or []contentPart when
	// an image is attached.
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// complete makes one chat-completions call and returns the raw message text.
func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	c.logger.Debug("Generation call completed",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// withRetry runs fn up to cfg.MaxAttempts times with exponentially
// increasing delay (2s, 4s, 8s by default). Retries are sequential and
// the sleep honors context cancellation. Parse failures count as
// transient and are retried like network failures.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	backoff := c.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		c.logger.Warn("Generation attempt failed",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt == c.cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, c.cfg.MaxAttempts, lastErr)
}

// extractJSON defensively unwraps a model response: strips code-fence
// markers and trims to the outermost brace or bracket span. Anything
// that fails this pipeline is a hard failure, never a partial success.
func extractJSON(response string) (string, error) {
	s := strings.TrimSpace(response)

	// Strip markdown code fences, with or without a language tag.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")

	start, closer := objStart, "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}

	end := strings.LastIndex(s, closer)
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no valid JSON found in response")
	}

	return s[start : end+1], nil
}

// decodeInto parses a model response into out and validates required
// fields, rejecting rather than defaulting anything marked required.
func (c *Client) decodeInto(response string, out interface{}) error {
	jsonStr, err := extractJSON(response)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := c.checkRequired(out); err != nil {
		return fmt.Errorf("response missing required fields: %w", err)
	}

	return nil
}

// checkRequired validates the "required" tags on the decoded value.
// Struct targets are validated directly; slice targets element-wise.
func (c *Client) checkRequired(out interface{}) error {
	switch v := out.(type) {
	case *[]outbound.ParsedItem:
		for i := range *v {
			if err := c.validate.Struct((*v)[i]); err != nil {
				return err
			}
		}
		return nil
	case *[]outbound.ShoppingPlan:
		for i := range *v {
			if err := c.validate.Struct((*v)[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return c.validate.Struct(out)
	}
}

// pickCuisine selects a random cuisine focus to induce variety across
// repeated calls.
func (c *Client) pickCuisine() string {
	cuisines := []string{
		"Italian", "Mexican", "Thai", "Japanese", "Indian", "French",
		"Greek", "Korean", "Spanish", "Vietnamese", "Moroccan", "American comfort",
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return cuisines[c.rng.Intn(len(cuisines))]
}
