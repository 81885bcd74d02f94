package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		ImageModel:     "test-image-model",
		MaxTokens:      1000,
		Temperature:    0.5,
		RequestTimeout: 5 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		RequestsPerMin: 60000,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testConfig(srv.URL), zap.NewNop()), srv
}

// completionResponse wraps content in the chat-completions envelope.
func completionResponse(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"title":"Toast"}`,
			want:  `{"title":"Toast"}`,
		},
		{
			name:  "fenced with language tag",
			input: "```json\n{\"title\":\"Toast\"}\n```",
			want:  `{"title":"Toast"}`,
		},
		{
			name:  "fenced without tag",
			input: "```\n[{\"name\":\"Eggs\"}]\n```",
			want:  `[{"name":"Eggs"}]`,
		},
		{
			name:  "surrounding prose",
			input: "Here is your recipe:\n{\"title\":\"Toast\"}\nEnjoy!",
			want:  `{"title":"Toast"}`,
		},
		{
			name:  "array before object",
			input: `[{"name":"Eggs"}] trailing`,
			want:  `[{"name":"Eggs"}]`,
		},
		{
			name:    "no json at all",
			input:   "Sorry, I can't help with that.",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynthesizeRecipe(t *testing.T) {
	content := "```json\n" + `{
		"title": "Pantry Fried Rice",
		"description": "Quick weeknight dinner",
		"ingredients": ["2 cups rice", "2 eggs"],
		"instructions": ["Cook rice.", "Scramble eggs."],
		"time_minutes": 0,
		"difficulty": "",
		"missing_items": ["soy sauce"],
		"match_score": 150,
		"calories": 0,
		"servings": 2
	}` + "\n```"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write(completionResponse(t, content))
	})

	resp, err := client.SynthesizeRecipe(context.Background(), outbound.RecipeRequest{
		PantryItems: []string{"rice (2 cups)", "eggs (6)"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pantry Fried Rice", resp.Title)
	// Optional fields are defaulted, match score clamped
	assert.Equal(t, 20, resp.TimeMinutes)
	assert.Equal(t, 500, resp.Calories)
	assert.Equal(t, "Easy", resp.Difficulty)
	require.NotNil(t, resp.MatchScore)
	assert.Equal(t, 100, *resp.MatchScore)
}

func TestSynthesizeRecipeRejectsOmittedMatchFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no match_score",
			content: `{"title":"Toast","ingredients":["bread"],"instructions":["toast it"],"servings":1,"missing_items":[]}`,
		},
		{
			name:    "no missing_items",
			content: `{"title":"Toast","ingredients":["bread"],"instructions":["toast it"],"servings":1,"match_score":40}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(completionResponse(t, tt.content))
			})

			_, err := client.SynthesizeRecipe(context.Background(), outbound.RecipeRequest{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required")
		})
	}
}

func TestSynthesizeRecipeRejectsMissingTitle(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(completionResponse(t, `{"ingredients":["x"],"instructions":["y"],"servings":2}`))
	})

	_, err := client.SynthesizeRecipe(context.Background(), outbound.RecipeRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
	// A structurally invalid response is retried like a network failure
	assert.Equal(t, int32(3), calls.Load())
}

func TestWithRetryRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write(completionResponse(t, `{"title":"Toast","ingredients":["bread"],"instructions":["toast it"],"servings":1,"missing_items":[],"match_score":0}`))
	})

	resp, err := client.SynthesizeRecipe(context.Background(), outbound.RecipeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Toast", resp.Title)
	// An empty missing-items list and a zero score are present, hence valid
	require.NotNil(t, resp.MissingItems)
	assert.Empty(t, *resp.MissingItems)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SynthesizeRecipe(ctx, outbound.RecipeRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseItemsFromText(t *testing.T) {
	content := `[{"name":"Eggs","quantity":"12","category":"Dairy & Eggs"},{"name":"Rice","quantity":"2 lbs","category":"Pantry Staples"}]`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionResponse(t, content))
	})

	items, err := client.ParseItemsFromText(context.Background(), "a dozen eggs and some rice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Eggs", items[0].Name)
	assert.Equal(t, "12", items[0].Quantity)
}

func TestParseItemsRejectsUnnamedEntries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionResponse(t, `[{"name":"","quantity":"1"}]`))
	})

	_, err := client.ParseItemsFromText(context.Background(), "whatever")
	assert.Error(t, err)
}

func TestChatPassesThroughFreeText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionResponse(t, "  Try a stir fry tonight.  "))
	})

	reply, err := client.Chat(context.Background(), nil, "what should I cook?", []string{"rice (2 cups)"})
	require.NoError(t, err)
	assert.Equal(t, "Try a stir fry tonight.", reply)
}

func TestSynthesizeImageNeverErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "image backend down", http.StatusBadGateway)
	})

	ref := client.SynthesizeImage(context.Background(), "pancakes")
	assert.Empty(t, ref)
}

func TestSynthesizeImageReturnsDataURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"b64_json": "aGVsbG8="}},
		})
	})

	ref := client.SynthesizeImage(context.Background(), "pancakes")
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", ref)
}

func TestPlanShopping(t *testing.T) {
	content := `[{
		"concept": "Weeknight Tacos",
		"description": "Fast dinner",
		"items": [{"name":"Tortillas","quantity":"12","category":"Pantry Staples"}],
		"full_recipe": {"title":"Weeknight Tacos","ingredients":["tortillas"],"instructions":["assemble"],"servings":4,"missing_items":["ground beef"],"match_score":60}
	}]`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionResponse(t, content))
	})

	plans, err := client.PlanShopping(context.Background(), outbound.ShoppingPlanRequest{Query: "3 dinners under $20"})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Weeknight Tacos", plans[0].Concept)
	require.NotNil(t, plans[0].FullRecipe)
	assert.Equal(t, 20, plans[0].FullRecipe.TimeMinutes)
}
