package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"tutorgate/config"
)

// Gemini implements Generator against the Google Generative Language API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini creates a Gemini provider from configuration. The client carries
// its own HTTP transport; no extra timeout is layered on top, so a call runs
// until the transport gives up or the request context is done.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Generate performs a single non-streaming model call and returns the raw
// text payload. An empty payload is returned as-is; deciding whether it is
// usable is the extractor's job.
func (g *Gemini) Generate(ctx context.Context, req *ModelRequest) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		role := genai.RoleUser
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		TopP:            genai.Ptr(req.TopP),
		MaxOutputTokens: req.MaxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		},
	}
	if req.ForceJSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	g.logger.Debug("Calling Gemini",
		zap.String("model", g.model),
		zap.Int("turns", len(req.Turns)),
		zap.Int("instruction_len", len(req.SystemInstruction)),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return resp.Text(), nil
}
