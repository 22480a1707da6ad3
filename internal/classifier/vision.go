package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

const classifyPrompt = `Look at this screenshot and classify the user's activity.
Answer on the first line with exactly one word from this list:
coding, browsing, writing, meeting, media, terminal, reading, idle, other.
On the second line, describe in one short sentence what is on screen.`

// VisionClient classifies screenshots through an OpenRouter-compatible
// chat-completions API with image content parts.
type VisionClient struct {
	cfg        config.ClassifierConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewVisionClient creates a VisionClient from configuration
func NewVisionClient(cfg config.ClassifierConfig, logger zerolog.Logger) *VisionClient {
	return &VisionClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With().Str("component", "VisionClient").Logger(),
	}
}

// Available reports whether the client has an API key to work with
func (v *VisionClient) Available() bool {
	return v.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Classify sends the screenshot to the vision model and returns the
// normalized activity label plus the model's free-text detail line.
func (v *VisionClient) Classify(ctx context.Context, imagePNG []byte) (Result, error) {
	if !v.Available() {
		return Result{}, errorwrapper.NewClassificationError("", "no API key configured", errorwrapper.ErrClassificationFailure)
	}

	messages := []chatMessage{
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: classifyPrompt},
				{
					Type: "image_url",
					ImageURL: &imageURL{
						URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG),
					},
				},
			},
		},
	}

	content, err := v.complete(ctx, messages)
	if err != nil {
		return Result{}, err
	}

	result := Result{Label: NormalizeLabel(content)}
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		result.Detail = strings.TrimSpace(content[idx+1:])
	}

	v.logger.Debug().Str("label", result.Label).Msg("Screenshot classified")
	return result, nil
}

// Summarize asks the model for a short narrative over the label tallies
func (v *VisionClient) Summarize(ctx context.Context, labelCounts map[string]int) (string, error) {
	if !v.Available() {
		return "", errorwrapper.NewClassificationError("", "no API key configured", errorwrapper.ErrClassificationFailure)
	}

	labels := make([]string, 0, len(labelCounts))
	for label := range labelCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	sb.WriteString("Here are activity labels counted from periodic screenshots of a work session:\n")
	for _, label := range labels {
		fmt.Fprintf(&sb, "- %s: %d\n", label, labelCounts[label])
	}
	sb.WriteString("Write a short paragraph (2-3 sentences) summarizing how the session was spent.")

	messages := []chatMessage{
		{
			Role:    "user",
			Content: []contentPart{{Type: "text", Text: sb.String()}},
		},
	}

	content, err := v.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (v *VisionClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:     v.cfg.Model,
		Messages:  messages,
		MaxTokens: v.cfg.MaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errorwrapper.NewClassificationError("", "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(v.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errorwrapper.NewClassificationError("", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+v.cfg.APIKey)

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return "", errorwrapper.NewClassificationError("", "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errorwrapper.NewClassificationError("", "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errorwrapper.NewClassificationError("",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), errorwrapper.ErrClassificationFailure)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errorwrapper.NewClassificationError("", "parse response", err)
	}
	if parsed.Error != nil {
		return "", errorwrapper.NewClassificationError("", "API error: "+parsed.Error.Message, errorwrapper.ErrClassificationFailure)
	}
	if len(parsed.Choices) == 0 {
		return "", errorwrapper.NewClassificationError("", "empty response from model", errorwrapper.ErrClassificationFailure)
	}

	return parsed.Choices[0].Message.Content, nil
}
