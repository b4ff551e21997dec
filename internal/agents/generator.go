package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"postforge/internal/domain"
)

// Generator turns one generation request into one draft. Implementations
// must complete or fail independently of their siblings.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*domain.Draft, error)
}

// LLMAgent generates a draft through the chat client. Invalid or unparsable
// model output is an agent failure; the caller substitutes a fallback.
type LLMAgent struct {
	llm *Client
}

func NewLLMAgent(llm *Client) *LLMAgent {
	return &LLMAgent{llm: llm}
}

func (a *LLMAgent) Generate(ctx context.Context, req GenerateRequest) (*domain.Draft, error) {
	if a.llm.Keyless() {
		return syntheticDraft(req), nil
	}

	started := time.Now()
	content, tokens, err := a.llm.Complete(ctx, systemPrompt, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	var payload agentPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: unparsable agent output: %v", domain.ErrInvalidOutput, err)
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}

	return &domain.Draft{
		JobID:         req.JobID,
		VariantNumber: req.Variant,
		AgentName:     string(req.Role),
		Body:          payload.Body,
		Hashtags:      payload.Hashtags,
		VoiceFit:      payload.VoiceFit,
		Meta: domain.GenerationMeta{
			ModelID:               a.llm.Model(),
			TokenCount:            tokens,
			LatencyMS:             time.Since(started).Milliseconds(),
			HistoricalContextUsed: req.Digest.HistoricalContext,
			HistoricalPostsUsed:   req.Digest.TopPerformerCount,
		},
	}, nil
}

// syntheticDraft is the keyless development-mode output: deterministic,
// clearly labeled, and valid by construction.
func syntheticDraft(req GenerateRequest) *domain.Draft {
	body := fmt.Sprintf("[synthetic %s draft] %s — a %s take for %s, about %d words.",
		req.Role, req.Request.Topic, req.Digest.DominantTone, req.Request.Platform, req.Digest.AvgWordCount)
	return &domain.Draft{
		JobID:         req.JobID,
		VariantNumber: req.Variant,
		AgentName:     string(req.Role),
		Body:          body,
		Hashtags:      []string{"#" + strings.ReplaceAll(strings.ToLower(req.Request.Topic), " ", "")},
		VoiceFit:      70,
		Meta: domain.GenerationMeta{
			ModelID:               "synthetic",
			HistoricalContextUsed: req.Digest.HistoricalContext,
			HistoricalPostsUsed:   req.Digest.TopPerformerCount,
		},
	}
}

// FallbackDraft builds the substitute draft used when an agent fails. It is
// explicitly flagged and carries a fixed, lower voice-fit score so the job
// still reaches exactly DraftCount drafts without masking the failure.
func FallbackDraft(req GenerateRequest) *domain.Draft {
	body := fmt.Sprintf("Here's a thought on %s.\n\nMost teams underestimate how much %s shapes their results. Start small: pick one concrete change this week and measure what happens.\n\nWhat has worked for you?",
		req.Request.Topic, req.Request.Topic)
	return &domain.Draft{
		JobID:         req.JobID,
		VariantNumber: req.Variant,
		AgentName:     string(req.Role),
		Body:          body,
		Hashtags:      nil,
		VoiceFit:      domain.FallbackVoiceFit,
		Meta: domain.GenerationMeta{
			ModelID:               "fallback",
			Fallback:              true,
			HistoricalContextUsed: req.Digest.HistoricalContext,
			HistoricalPostsUsed:   req.Digest.TopPerformerCount,
		},
	}
}
