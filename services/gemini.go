package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"wardrobeapi/logger"
	"wardrobeapi/models"
)

// LLMModelName is the Gemini model used for analysis and suggestions.
type LLMModelName int32

const (
	Flash25 LLMModelName = iota
	FlashLite25
	Pro25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.5-flash"
	}
}

// ParseLLMModelName maps a model name from configuration; unknown names fall back to Flash25.
func ParseLLMModelName(name string) LLMModelName {
	for _, m := range []LLMModelName{Flash25, FlashLite25, Pro25, Flash20} {
		if m.String() == name {
			return m
		}
	}
	return Flash25
}

func floatPointer(f float32) *float32 {
	return &f
}

type ClothingAnalyzer interface {
	AnalyzeClothing(ctx context.Context, image []byte, mimeType string) (*models.ClothingDetails, error)
}

// OutfitSuggester picks one item id per requested category from the candidates.
type OutfitSuggester interface {
	SuggestOutfit(ctx context.Context, candidates map[models.Category][]models.ClothingItem, selection models.SelectionState) (map[models.Category]string, error)
}

const clothingAnalysisPrompt = "Analyze the clothing in this image and provide:\n" +
	"1. A description with color, clothing type, wear, fit, type, and key features, separated by commas.\n" +
	"2. Generate appropriate tags from these categories:\n" +
	"   - Clothing type (e.g., jeans, shirt, dress)\n" +
	"   - Color (e.g., blue, black, white)\n" +
	"   - Wear (e.g., Topwear, Bottomwear, Footwear)\n" +
	"   - Fit (e.g., slim fit, regular fit, loose)\n" +
	"   - Type (e.g., Casual, Formal, Party, Sport)\n" +
	"\n" +
	"Format the response exactly like this:\n" +
	"DESCRIPTION: [comma-separated description]\n" +
	"TAGS: [tag1], [tag2], [tag3], [tag4]"

type GoogleLLMProcessor struct {
	APIKey string
	Model  LLMModelName
}

func NewGoogleLLMProcessor(apiKey string, model LLMModelName) *GoogleLLMProcessor {
	return &GoogleLLMProcessor{APIKey: apiKey, Model: model}
}

func (p *GoogleLLMProcessor) newClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// AnalyzeClothing sends the image inline together with the analysis prompt and
// parses the DESCRIPTION/TAGS reply.
func (p *GoogleLLMProcessor) AnalyzeClothing(ctx context.Context, image []byte, mimeType string) (*models.ClothingDetails, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
		{Text: clothingAnalysisPrompt},
	}
	result, err := client.Models.GenerateContent(ctx, p.Model.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 2048,
		Temperature:     floatPointer(0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}
	logger.Log.Debugf("[Gemini] raw analysis: %s", result.Text())
	return ParseClothingAnalysis(result.Text()), nil
}

// ParseClothingAnalysis reads the line-oriented reply. Unknown lines are
// ignored; a later DESCRIPTION or TAGS line wins.
func ParseClothingAnalysis(text string) *models.ClothingDetails {
	details := &models.ClothingDetails{Tags: []string{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*")
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DESCRIPTION:"):
			details.Description = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:")), "*[] ")
		case strings.HasPrefix(line, "TAGS:"):
			tags := []string{}
			for _, tag := range strings.Split(strings.TrimPrefix(line, "TAGS:"), ",") {
				tag = strings.Trim(tag, "*[] ")
				if tag != "" {
					tags = append(tags, tag)
				}
			}
			details.Tags = tags
		}
	}
	return details
}

type suggestionCandidate struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// SuggestOutfit asks Gemini for a JSON object keyed by category holding the chosen item ids.
func (p *GoogleLLMProcessor) SuggestOutfit(ctx context.Context, candidates map[models.Category][]models.ClothingItem, selection models.SelectionState) (map[models.Category]string, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	wanted := map[string][]suggestionCandidate{}
	properties := map[string]*genai.Schema{}
	required := []string{}
	for _, category := range models.Categories {
		items, ok := candidates[category]
		if !ok {
			continue
		}
		for _, item := range items {
			wanted[string(category)] = append(wanted[string(category)], suggestionCandidate{ID: item.ID, Description: item.Description, Tags: item.Tags})
		}
		properties[string(category)] = &genai.Schema{Type: genai.TypeString}
		required = append(required, string(category))
	}

	chosen := []suggestionCandidate{}
	for _, item := range selection.Items() {
		chosen = append(chosen, suggestionCandidate{ID: item.ID, Description: item.Description, Tags: item.Tags})
	}
	chosenJSON, _ := json.Marshal(chosen)
	wantedJSON, _ := json.Marshal(wanted)

	prompt := "The user already picked these clothing items for an outfit: " + string(chosenJSON) + "\n" +
		"Complete the outfit by choosing exactly one item id for each category from these candidates: " + string(wantedJSON) + "\n" +
		"Pick items whose colors, fit and style match the already picked items and each other. " +
		"Return a JSON object mapping each category to the chosen item id."

	result, err := client.Models.GenerateContent(ctx, p.Model.String(), []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  2048,
		Temperature:      floatPointer(0.8),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: "You are a personal stylist composing outfits only from the user's own wardrobe. Never invent item ids."}},
		},
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: properties,
			Required:   required,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return ParseSuggestion(result.Text())
}

// ParseSuggestion decodes the category to id object, tolerating a fenced code block.
func ParseSuggestion(text string) (map[models.Category]string, error) {
	cleaned := cleanAIResponseText(text)
	raw := map[string]string{}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	picks := map[models.Category]string{}
	for key, id := range raw {
		category := models.Category(strings.ToLower(key))
		if category.Valid() && id != "" {
			picks[category] = id
		}
	}
	return picks, nil
}

func cleanAIResponseText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
