package icao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Disambiguation is the opaque collaborator result for a country name that
// matched neither a canonical state name nor a known alias.
type Disambiguation struct {
	Confident     bool   `json:"confident"`
	OfficialName  string `json:"official_name"`
	AlternateName string `json:"alternate_name"`
}

// CountryDisambiguator reconciles a free text country description against
// the canonical member state list.
type CountryDisambiguator interface {
	Disambiguate(ctx context.Context, description string) (Disambiguation, error)
}

// Compile-time interface check
var _ CountryDisambiguator = (*OpenAIDisambiguator)(nil)

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIDisambiguator implements country disambiguation using OpenAI's API.
type OpenAIDisambiguator struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAIDisambiguator creates a new OpenAI backed disambiguator.
func NewOpenAIDisambiguator(apiKey, model string) *OpenAIDisambiguator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIDisambiguator{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
	}
}

const disambiguationSystemPrompt = `You reconcile country names from airport data ` +
	`sources against official state names. Reply with a single JSON object: ` +
	`{"confident": bool, "official_name": string, "alternate_name": string}. ` +
	`Set confident to true only when the mapping is unambiguous.`

// Disambiguate asks the model whether the description maps onto an official
// state name.
func (d *OpenAIDisambiguator) Disambiguate(ctx context.Context, description string) (Disambiguation, error) {
	resp, err := d.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(d.model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(disambiguationSystemPrompt),
			openai.UserMessage(description),
		}),
	})
	if err != nil {
		return Disambiguation{}, fmt.Errorf("country disambiguation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Disambiguation{}, errors.New("country disambiguation failed: no choices returned")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result Disambiguation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return Disambiguation{}, fmt.Errorf("country disambiguation returned malformed payload: %w", err)
	}

	result.OfficialName = strings.TrimSpace(result.OfficialName)
	result.AlternateName = strings.TrimSpace(result.AlternateName)
	if result.Confident && result.OfficialName == "" {
		return Disambiguation{}, errors.New("country disambiguation confident without an official name")
	}
	return result, nil
}
