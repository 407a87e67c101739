package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"core/internal/config"
	"core/internal/logger"
	"core/internal/model"
	"core/internal/utils"
)

// Enricher is the optional collaborator that improves extraction quality.
// Any failure degrades to an empty overlay; the engine never depends on it
// for correctness.
type Enricher interface {
	Extract(ctx context.Context, rawText string) (*model.ListingOverlay, error)
}

// OpenAIEnricher asks a chat model for a partial structured overlay of a
// listing text.
type OpenAIEnricher struct {
	client *openai.Client
	cfg    *config.OpenAIConfig
	log    logger.Logger
}

// NewOpenAIEnricher builds the enrichment client. Returns nil when no API
// key is configured, which the engine treats as "heuristics only".
func NewOpenAIEnricher(cfg *config.OpenAIConfig, log logger.Logger) *OpenAIEnricher {
	if !cfg.Enabled {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}
	clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	return &OpenAIEnricher{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		log:    log,
	}
}

const enrichSystemPrompt = `You are a data extractor for Koh Samui rental listings posted in Russian or English.
Extract the following fields from the listing text if present:
- location: one of "lamai", "bophut", "chaweng", "maenam", "bangrak", "choeng mon", "lipa noi", "taling ngam"
- bedrooms: number of bedrooms (integer)
- bathrooms: number of bathrooms (integer)
- price_month: monthly rent in Thai baht (integer, "45к"/"45k" means 45000)
- pets_allowed: true or false, only when the text states it explicitly
- available: availability date text as written (e.g. "1 декабря", "2024-12-01")
- electricity_rate: baht per kWh (number)
- water_rate: baht per cubic meter (number)
- pool: true when the unit has a pool
- furnished: true or false, only when stated
- tags: short lowercase keywords describing the unit (e.g. ["villa", "sea view"])

Respond ONLY with valid JSON. Omit any field the text does not mention.`

// enrichResponse is the raw overlay shape returned by the model.
type enrichResponse struct {
	Location        string   `json:"location,omitempty"`
	Bedrooms        *int     `json:"bedrooms,omitempty"`
	Bathrooms       *int     `json:"bathrooms,omitempty"`
	PriceMonth      *int     `json:"price_month,omitempty"`
	PetsAllowed     *bool    `json:"pets_allowed,omitempty"`
	Available       string   `json:"available,omitempty"`
	ElectricityRate *float64 `json:"electricity_rate,omitempty"`
	WaterRate       *float64 `json:"water_rate,omitempty"`
	Pool            *bool    `json:"pool,omitempty"`
	Furnished       *bool    `json:"furnished,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Extract asks the model for an overlay of the listing text.
func (e *OpenAIEnricher) Extract(ctx context.Context, rawText string) (*model.ListingOverlay, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: float32(e.cfg.Temperature),
		MaxTokens:   e.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enrichSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: rawText},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("enrichment returned no choices")
	}

	var parsed enrichResponse
	content := resp.Choices[0].Message.Content
	if err := utils.ParseAIJSON(content, &parsed); err != nil {
		e.log.WithField("content", content).Debug("unparsable enrichment output")
		return nil, fmt.Errorf("failed to parse enrichment response: %w", err)
	}
	if err := validateEnrichment(&parsed); err != nil {
		return nil, fmt.Errorf("enrichment response validation failed: %w", err)
	}

	return overlayFromResponse(&parsed), nil
}

// validateEnrichment applies business bounds to the model output.
func validateEnrichment(r *enrichResponse) error {
	if r.Bedrooms != nil && (*r.Bedrooms < 0 || *r.Bedrooms > 20) {
		return fmt.Errorf("bedrooms out of range: %d", *r.Bedrooms)
	}
	if r.Bathrooms != nil && (*r.Bathrooms < 0 || *r.Bathrooms > 20) {
		return fmt.Errorf("bathrooms out of range: %d", *r.Bathrooms)
	}
	if r.PriceMonth != nil && *r.PriceMonth < 0 {
		return fmt.Errorf("negative price: %d", *r.PriceMonth)
	}
	if r.ElectricityRate != nil && *r.ElectricityRate < 0 {
		return fmt.Errorf("negative electricity rate")
	}
	if r.WaterRate != nil && *r.WaterRate < 0 {
		return fmt.Errorf("negative water rate")
	}
	return nil
}

func overlayFromResponse(r *enrichResponse) *model.ListingOverlay {
	overlay := &model.ListingOverlay{
		Location:        r.Location,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		PriceMonth:      r.PriceMonth,
		Available:       r.Available,
		ElectricityRate: r.ElectricityRate,
		WaterRate:       r.WaterRate,
		Pets:            triFromBool(r.PetsAllowed),
		Pool:            triFromBool(r.Pool),
		Furnished:       triFromBool(r.Furnished),
		Tags:            r.Tags,
	}
	return overlay
}

func triFromBool(b *bool) model.TriState {
	switch {
	case b == nil:
		return model.TriUnknown
	case *b:
		return model.TriAllowed
	default:
		return model.TriDisallowed
	}
}
