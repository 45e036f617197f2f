package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuhsinlo/execprofile/internal/llm"
	"github.com/yuhsinlo/execprofile/internal/normalize"
)

// ExtractProfile implements llm.ProfileExtractor over chat/completions.
// The reply is fence-stripped, sanitized, schema-validated, and decoded;
// any of those steps failing after all attempts yields an error the
// orchestrator treats as "this strategy found nothing".
func (c *Client) ExtractProfile(ctx context.Context, name, company string) (llm.ProfileFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"name", name,
		"company", company,
	)

	prompt := llm.BuildProfilePrompt(name, company)
	content, err := c.complete(ctx, rid, prompt, c.cfg.MaxTokens)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProfileFields{}, nil, err
	}

	rawObject, err := llm.ExtractJSONObject(content)
	if err != nil {
		c.logger.Error("llm.extract.no_json",
			"req_id", rid, "error", err, "content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProfileFields{}, []byte(content), fmt.Errorf("extract json: %w", err)
	}

	cleaned, dropped, err := llm.NormalizeAndSanitizeJSON(rawObject, c.logger)
	if err != nil {
		c.logger.Error("llm.extract.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProfileFields{}, rawObject, fmt.Errorf("sanitize: %w", err)
	}
	if len(dropped) > 0 {
		c.logger.Warn("llm.extract.sanitize_applied", "req_id", rid, "dropped", dropped)
	}

	schema := llm.BuildProfileJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProfileFields{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.ProfileFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ProfileFields{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"age", out.Age,
		"category", out.ProfessionalCategory,
		"education_entries", len(out.Education),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

// ExtractField implements the focused single-column lookup used in cell
// mode. The answer is plain text, run through the value normalizer so a
// "無資料" reply comes back as "".
func (c *Client) ExtractField(ctx context.Context, field, name, company string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.field.start",
		"req_id", rid, "field", field, "name", name)

	prompt := llm.BuildFieldPrompt(field, name, company)
	content, err := c.complete(ctx, rid, prompt, c.cfg.FieldMaxTokens)
	if err != nil {
		c.logger.Error("llm.field.http_error",
			"req_id", rid, "field", field, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	value := normalize.Clean(content)
	c.logger.Info("llm.field.ok",
		"req_id", rid, "field", field, "found", value != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return value, nil
}

// complete runs the retry loop around one chat/completions call. A 429
// earns the long rate-limit pause, anything else the short one.
func (c *Client) complete(ctx context.Context, rid, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		raw, status, err := c.post(ctx, endpoint, body)
		if err == nil {
			content, decodeErr := decodeContent(raw)
			if decodeErr == nil {
				return content, nil
			}
			err = decodeErr
		}
		lastErr = err

		if attempt == c.cfg.MaxAttempts || ctx.Err() != nil {
			break
		}
		pause := c.cfg.RetrySleep
		if status == http.StatusTooManyRequests {
			pause = c.cfg.RateLimitSleep
		}
		c.logger.Warn("llm.request.retry",
			"req_id", rid, "attempt", attempt, "status", status,
			"sleep_ms", pause.Milliseconds(), "error", err,
		)
		c.sleep(pause)
	}
	return "", lastErr
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("perplexity http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("perplexity response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("perplexity status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, resp.StatusCode, nil
}

func decodeContent(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode perplexity response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in perplexity response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
