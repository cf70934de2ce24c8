package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeapi/models"
)

func TestParseClothingAnalysis(t *testing.T) {
	text := "Here you go:\nDESCRIPTION: blue, denim jacket, regular fit, button front\nTAGS: jacket, blue, Topwear, Casual\n"

	details := ParseClothingAnalysis(text)
	assert.Equal(t, "blue, denim jacket, regular fit, button front", details.Description)
	assert.Equal(t, []string{"jacket", "blue", "Topwear", "Casual"}, details.Tags)
}

func TestParseClothingAnalysisMarkdownAndBrackets(t *testing.T) {
	text := "**DESCRIPTION:** black, leather boots\n**TAGS:** [boots], [black], [Footwear], \n"

	details := ParseClothingAnalysis(text)
	assert.Equal(t, "black, leather boots", details.Description)
	assert.Equal(t, []string{"boots", "black", "Footwear"}, details.Tags)
	assert.Equal(t, models.Footwear, models.Classify(details.Tags))
}

func TestParseClothingAnalysisNoMatch(t *testing.T) {
	details := ParseClothingAnalysis("I cannot see any clothing.")
	assert.Equal(t, "", details.Description)
	assert.NotNil(t, details.Tags)
	assert.Empty(t, details.Tags)
}

func TestParseSuggestion(t *testing.T) {
	picks, err := ParseSuggestion("```json\n{\"Topwear\": \"a\", \"footwear\": \"c\", \"hat\": \"x\", \"bottomwear\": \"\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, map[models.Category]string{models.Topwear: "a", models.Footwear: "c"}, picks)

	_, err = ParseSuggestion("not json")
	assert.Error(t, err)
}

func TestParseLLMModelName(t *testing.T) {
	assert.Equal(t, Pro25, ParseLLMModelName("gemini-2.5-pro"))
	assert.Equal(t, Flash25, ParseLLMModelName("unknown"))
	assert.Equal(t, "gemini-2.0-flash", Flash20.String())
}
