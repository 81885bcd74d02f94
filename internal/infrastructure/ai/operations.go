package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"go.uber.org/zap"
)

const recipeSchemaPrompt = `You are an expert chef helping a home cook use what is already in their pantry.

CRITICAL: Respond with ONLY a valid JSON object in exactly this format. No explanatory text, no markdown outside the JSON.

{
  "title": "Recipe Name",
  "description": "One or two sentence description",
  "ingredients": ["2 cups rice", "1 lb chicken breast"],
  "instructions": ["Step one.", "Step two."],
  "time_minutes": 30,
  "difficulty": "Easy|Medium|Hard",
  "missing_items": ["ingredient names not in the pantry"],
  "match_score": 85,
  "calories": 450,
  "servings": 2
}

match_score is an integer 0-100 estimating how much of the recipe the pantry already covers.`

// SynthesizeRecipe requests a single recipe matching the pantry and
// preferences. The caller's exclusion list keeps one generation batch
// free of duplicate titles.
func (c *Client) SynthesizeRecipe(ctx context.Context, req outbound.RecipeRequest) (*outbound.RecipeResponse, error) {
	focus := req.CuisineFocus
	if focus == "" {
		focus = c.pickCuisine()
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Create one recipe using this pantry: %s\n", strings.Join(req.PantryItems, ", "))
	fmt.Fprintf(&user, "Cuisine focus: %s\n", focus)
	if req.Query != "" {
		fmt.Fprintf(&user, "The cook asked for: %s\n", req.Query)
	}
	if req.MealType != "" {
		fmt.Fprintf(&user, "Meal type: %s\n", req.MealType)
	}
	if req.Servings > 0 {
		fmt.Fprintf(&user, "Servings: %d\n", req.Servings)
	}
	writePreferences(&user, req.Preferences.Dietary, req.Preferences.Allergies, req.Preferences.Appliances, req.Preferences.SkillLevel, string(req.Preferences.Strictness))
	if len(req.ExcludeTitles) > 0 {
		fmt.Fprintf(&user, "Do NOT suggest any of these recipes again: %s\n", strings.Join(req.ExcludeTitles, "; "))
	}

	var resp outbound.RecipeResponse
	err := c.withRetry(ctx, "recipe synthesis", func() error {
		raw, err := c.complete(ctx, []chatMessage{
			{Role: "system", Content: recipeSchemaPrompt},
			{Role: "user", Content: user.String()},
		})
		if err != nil {
			return err
		}
		resp = outbound.RecipeResponse{}
		return c.decodeInto(raw, &resp)
	})
	if err != nil {
		return nil, err
	}

	applyRecipeDefaults(&resp)
	return &resp, nil
}

// applyRecipeDefaults fills the optional fields the model omitted.
// Required fields are never defaulted; decodeInto already rejected them.
func applyRecipeDefaults(resp *outbound.RecipeResponse) {
	if resp.TimeMinutes <= 0 {
		resp.TimeMinutes = recipe.DefaultTimeMinutes
	}
	if resp.Calories <= 0 {
		resp.Calories = recipe.DefaultCalories
	}
	if resp.Difficulty == "" {
		resp.Difficulty = string(recipe.DifficultyEasy)
	}
	if resp.Servings <= 0 {
		resp.Servings = recipe.DefaultServings
	}
	if resp.MatchScore != nil {
		clamped := recipe.ClampMatchScore(*resp.MatchScore)
		resp.MatchScore = &clamped
	}
}

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// SynthesizeImage generates a decorative dish photo and returns it as a
// data URL. It is strictly best-effort: any failure yields an empty
// reference and never blocks the caller's primary flow.
func (c *Client) SynthesizeImage(ctx context.Context, subject string) string {
	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}

	reqBody := imageGenerationRequest{
		Model:          c.cfg.ImageModel,
		Prompt:         fmt.Sprintf("A bright, appetizing photo of %s, plated, overhead shot", subject),
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/images/generations", bytes.NewBuffer(jsonBody))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("Image generation skipped", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		c.logger.Debug("Image generation skipped", zap.Int("status", resp.StatusCode))
		return ""
	}

	var imgResp imageGenerationResponse
	if err := json.Unmarshal(body, &imgResp); err != nil || len(imgResp.Data) == 0 {
		return ""
	}

	return "data:image/png;base64," + imgResp.Data[0].B64JSON
}

const listSchemaPrompt = `You extract grocery items into structured JSON.

CRITICAL: Respond with ONLY a valid JSON array in exactly this format:

[{"name": "Eggs", "quantity": "12", "category": "Dairy & Eggs"}]

category must be one of: Produce, Dairy & Eggs, Meat & Protein, Pantry Staples, Frozen, Beverages, Other.
Skip prices, totals, store names, and anything that is not a food or household grocery item.`

// ParseItemsFromImage structures the grocery items visible in a receipt
// or shelf photo.
func (c *Client) ParseItemsFromImage(ctx context.Context, image []byte, mimeType string) ([]outbound.ParsedItem, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	var items []outbound.ParsedItem
	err := c.withRetry(ctx, "receipt parsing", func() error {
		raw, err := c.complete(ctx, []chatMessage{
			{Role: "system", Content: listSchemaPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "List every grocery item in this image."},
				{Type: "image_url", ImageURL: &imageRef{URL: dataURL}},
			}},
		})
		if err != nil {
			return err
		}
		items = nil
		return c.decodeInto(raw, &items)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ParseItemsFromText structures a pasted free-text grocery list.
func (c *Client) ParseItemsFromText(ctx context.Context, text string) ([]outbound.ParsedItem, error) {
	var items []outbound.ParsedItem
	err := c.withRetry(ctx, "list parsing", func() error {
		raw, err := c.complete(ctx, []chatMessage{
			{Role: "system", Content: listSchemaPrompt},
			{Role: "user", Content: "Extract the grocery items from this list:\n" + text},
		})
		if err != nil {
			return err
		}
		items = nil
		return c.decodeInto(raw, &items)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Chat produces a conversational assistant reply grounded in the pantry.
// Callers supply their own static fallback on failure so the assistant
// never appears to hang silently.
func (c *Client) Chat(ctx context.Context, history []outbound.ChatMessage, message string, pantryContext []string) (string, error) {
	system := "You are a friendly cooking assistant. Answer briefly and practically."
	if len(pantryContext) > 0 {
		system += " The user's pantry currently contains: " + strings.Join(pantryContext, ", ") + "."
	}

	messages := []chatMessage{{Role: "system", Content: system}}
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	var reply string
	err := c.withRetry(ctx, "chat", func() error {
		raw, err := c.complete(ctx, messages)
		if err != nil {
			return err
		}
		reply = strings.TrimSpace(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

const planSchemaPrompt = `You are a meal-planning assistant. The user describes what they want to shop for; you respond with a set of meal concepts.

CRITICAL: Respond with ONLY a valid JSON array in exactly this format:

[
  {
    "concept": "Weeknight Tacos",
    "description": "Fast family dinner",
    "items": [{"name": "Tortillas", "quantity": "12", "category": "Pantry Staples"}],
    "full_recipe": {
      "title": "Weeknight Tacos",
      "description": "...",
      "ingredients": ["..."],
      "instructions": ["..."],
      "time_minutes": 25,
      "difficulty": "Easy",
      "missing_items": ["..."],
      "match_score": 60,
      "calories": 550,
      "servings": 4
    }
  }
]

items must list only ingredients the user still needs to buy, given their pantry.`

// PlanShopping turns one free-text request into multiple meal concepts,
// each carrying its own missing-items list and full recipe body.
func (c *Client) PlanShopping(ctx context.Context, req outbound.ShoppingPlanRequest) ([]outbound.ShoppingPlan, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "Request: %s\n", req.Query)
	fmt.Fprintf(&user, "Pantry already contains: %s\n", strings.Join(req.PantryItems, ", "))
	writePreferences(&user, req.Preferences.Dietary, req.Preferences.Allergies, req.Preferences.Appliances, req.Preferences.SkillLevel, string(req.Preferences.Strictness))

	var plans []outbound.ShoppingPlan
	err := c.withRetry(ctx, "shopping plan", func() error {
		raw, err := c.complete(ctx, []chatMessage{
			{Role: "system", Content: planSchemaPrompt},
			{Role: "user", Content: user.String()},
		})
		if err != nil {
			return err
		}
		plans = nil
		return c.decodeInto(raw, &plans)
	})
	if err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].FullRecipe != nil {
			applyRecipeDefaults(plans[i].FullRecipe)
		}
	}
	return plans, nil
}

func writePreferences(b *strings.Builder, dietary, allergies, appliances []string, skill, strictness string) {
	if len(dietary) > 0 {
		fmt.Fprintf(b, "Dietary restrictions: %s\n", strings.Join(dietary, ", "))
	}
	if len(allergies) > 0 {
		fmt.Fprintf(b, "Allergies (never include these): %s\n", strings.Join(allergies, ", "))
	}
	if len(appliances) > 0 {
		fmt.Fprintf(b, "Available appliances: %s\n", strings.Join(appliances, ", "))
	}
	if skill != "" {
		fmt.Fprintf(b, "Cooking skill level: %s\n", skill)
	}
	if strictness != "" {
		fmt.Fprintf(b, "Pantry strictness: %s\n", strictness)
	}
}
