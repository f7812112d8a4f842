package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/edustack/analogia/config"
	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ImageService renders an illustrative image for an analogy and returns it
// as a base64 data URI.
type ImageService interface {
	GenerateImage(ctx context.Context, req dto.GenerateImageRequest) (string, error)
}

type geminiImageService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewImageService(cfg *config.Config) (ImageService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. ImageService will be non-functional.")
		return &geminiImageService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiImageService{client: client.GenerativeModel("gemini-2.0-flash-exp"), cfg: cfg}, nil
}

func (s *geminiImageService) GenerateImage(ctx context.Context, req dto.GenerateImageRequest) (string, error) {
	if s.client == nil {
		return "", apperr.External("image service unavailable", fmt.Errorf("gemini client not initialized"))
	}

	var b strings.Builder
	b.WriteString("Generate a single friendly illustration for a teaching analogy.\n")
	if req.Topic != "" {
		b.WriteString("Topic: " + req.Topic + "\n")
	}
	if req.Style != "" {
		b.WriteString("Style: " + req.Style + "\n")
	}
	b.WriteString("Analogy:\n")
	b.WriteString(req.AnalogyText)

	resp, err := s.client.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during image generation")
		return "", apperr.External("image generation call failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.External("image generation returned no content", fmt.Errorf("empty response"))
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			mime := blob.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(blob.Data)), nil
		}
	}
	return "", apperr.External("image generation returned no image data", fmt.Errorf("no blob parts"))
}
