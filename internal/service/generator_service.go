package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/edustack/analogia/config"
	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/model"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// maxNotesLen is the truncation limit applied to lecturer notes before they
// are sent to the external generator.
const maxNotesLen = 1000

// GeneratorService produces a single topic/analogy pair for a concept. The
// response contract is a single strict JSON object {"topic", "analogy"};
// anything else is an External error.
type GeneratorService interface {
	GenerateAnalogy(ctx context.Context, concept, notes string) (*model.TopicEntry, error)
}

type geminiGeneratorService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeneratorService(cfg *config.Config) (GeneratorService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeneratorService will be non-functional.")
		return &geminiGeneratorService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel("gemini-1.5-flash")
	m.GenerationConfig.ResponseMIMEType = "application/json"
	return &geminiGeneratorService{client: m, cfg: cfg}, nil
}

func (s *geminiGeneratorService) GenerateAnalogy(ctx context.Context, concept, notes string) (*model.TopicEntry, error) {
	if s.client == nil {
		return nil, apperr.External("generation service unavailable", fmt.Errorf("gemini client not initialized"))
	}

	prompt := buildAnalogyPrompt(concept, TruncateNotes(notes))

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("concept", concept).Msg("Gemini API error during analogy generation")
		return nil, apperr.External("generation call failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperr.External("generation returned no content", fmt.Errorf("empty response"))
	}

	raw := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw += string(txt)
		}
	}
	if raw == "" {
		return nil, apperr.External("generation returned no text content", fmt.Errorf("no text parts"))
	}

	entry, err := ParseAnalogyResponse(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse generation response")
		return nil, err
	}
	return entry, nil
}

// TruncateNotes caps lecturer notes at maxNotesLen before external calls.
func TruncateNotes(notes string) string {
	return truncateRunes(notes, maxNotesLen)
}

// truncateRunes caps s at max bytes, backing the cut up so a multi-byte
// rune is never split. The result is always valid UTF-8 when s is.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func buildAnalogyPrompt(concept, notes string) string {
	var b strings.Builder
	b.WriteString("You are an experienced university lecturer who explains difficult concepts through vivid, everyday analogies.\n")
	b.WriteString("Produce ONE teaching analogy for the concept below, informed by the lecturer's notes.\n\n")
	b.WriteString("Concept:\n")
	b.WriteString(concept)
	b.WriteString("\n\nLecturer notes:\n")
	b.WriteString(notes)
	b.WriteString("\n\nRespond with a single JSON object and nothing else, shaped exactly as:\n")
	b.WriteString(`{"topic": "<short topic label>", "analogy": "<the full analogy text>"}`)
	b.WriteString("\nDo not wrap the object in an array, markdown fences, or commentary.")
	return b.String()
}

// ParseAnalogyResponse is the typed parsing boundary for the generator: it
// accepts exactly one JSON object with non-empty topic and analogy strings.
// Every shape mismatch collapses into the External error kind.
func ParseAnalogyResponse(raw string) (*model.TopicEntry, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var entry model.TopicEntry
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&entry); err != nil {
		return nil, apperr.External("generation returned malformed JSON", err)
	}
	if strings.TrimSpace(entry.Topic) == "" || strings.TrimSpace(entry.Analogy) == "" {
		return nil, apperr.External("generation response missing topic or analogy", fmt.Errorf("incomplete object: %q", cleaned))
	}
	entry.Feedback = ""
	return &entry, nil
}

// stripCodeFence tolerates models that fence JSON despite the instruction.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
