package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/screentrack/internal/config"
	"github.com/aleister1102/screentrack/internal/errorwrapper"
)

func testConfig(baseURL string) config.ClassifierConfig {
	return config.ClassifierConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "openai/gpt-4o-mini",
		TimeoutSeconds: 5,
		MaxTokens:      300,
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4o-mini", req["model"])

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestVisionClient_Classify(t *testing.T) {
	srv := chatServer(t, "coding\nAn editor with Go source open.")
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	result, err := client.Classify(context.Background(), []byte("fake-png"))

	require.NoError(t, err)
	assert.Equal(t, LabelCoding, result.Label)
	assert.Equal(t, "An editor with Go source open.", result.Detail)
}

func TestVisionClient_Classify_SendsImageDataURL(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "other"}}},
		})
	}))
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	_, err := client.Classify(context.Background(), []byte{0x89, 0x50})
	require.NoError(t, err)

	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	imagePart := content[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	assert.Contains(t, url, "data:image/png;base64,")
}

func TestVisionClient_Classify_UnknownAnswerNormalized(t *testing.T) {
	srv := chatServer(t, "The user appears to be debugging something.")
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	result, err := client.Classify(context.Background(), []byte("fake-png"))

	require.NoError(t, err)
	assert.Equal(t, LabelOther, result.Label)
}

func TestVisionClient_Classify_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	_, err := client.Classify(context.Background(), []byte("fake-png"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrClassificationFailure))
}

func TestVisionClient_Classify_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	_, err := client.Classify(context.Background(), []byte("fake-png"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrClassificationFailure))
}

func TestVisionClient_Classify_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, []byte("fake-png"))
	require.Error(t, err)
}

func TestVisionClient_Classify_NoAPIKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.APIKey = ""

	client := NewVisionClient(cfg, zerolog.Nop())
	_, err := client.Classify(context.Background(), []byte("fake-png"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrClassificationFailure))
}

func TestVisionClient_Summarize(t *testing.T) {
	srv := chatServer(t, "Mostly a coding session with short browsing breaks.")
	defer srv.Close()

	client := NewVisionClient(testConfig(srv.URL), zerolog.Nop())
	summary, err := client.Summarize(context.Background(), map[string]int{"coding": 5, "browsing": 2})

	require.NoError(t, err)
	assert.Equal(t, "Mostly a coding session with short browsing breaks.", summary)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, LabelCoding, NormalizeLabel("coding"))
	assert.Equal(t, LabelCoding, NormalizeLabel("Coding\nextra detail"))
	assert.Equal(t, LabelBrowsing, NormalizeLabel("  BROWSING  "))
	assert.Equal(t, LabelTerminal, NormalizeLabel("label: terminal"))
	assert.Equal(t, LabelOther, NormalizeLabel("watching cat videos"))
	assert.Equal(t, LabelOther, NormalizeLabel(""))
}

func TestNormalizeLabel_MultipleMatchesDeterministic(t *testing.T) {
	// vocabulary order decides when an answer mentions several labels
	for i := 0; i < 10; i++ {
		assert.Equal(t, LabelMedia, NormalizeLabel("reading media"))
		assert.Equal(t, LabelCoding, NormalizeLabel("coding and browsing"))
	}
}
