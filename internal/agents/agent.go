package agents

import (
	"fmt"
	"strings"

	"postforge/internal/domain"
)

// Role is the angle an agent writes from. Roles are fixed and distinct so
// the ensemble produces differentiated variants, not three near-duplicates.
type Role string

const (
	RoleStoryteller Role = "storyteller"
	RoleContrarian  Role = "contrarian"
	RoleDataDriven  Role = "data-driven"
)

// Roles maps variant numbers (1..DraftCount) onto agent roles.
var Roles = [domain.DraftCount]Role{RoleStoryteller, RoleContrarian, RoleDataDriven}

// MaxHashtags bounds the hashtag count a draft may carry; more is treated
// as invalid agent output.
const MaxHashtags = 8

// GenerateRequest carries everything one agent run needs.
type GenerateRequest struct {
	JobID   string
	Variant int
	Role    Role
	Request domain.GenerationRequest
	Digest  domain.PatternDigest
}

// agentPayload is the JSON contract the model is asked to return.
type agentPayload struct {
	Body     string   `json:"body"`
	Hashtags []string `json:"hashtags"`
	VoiceFit int      `json:"voice_fit"`
}

// validate enforces the acceptance rules before a payload becomes a Draft.
func (p *agentPayload) validate() error {
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidOutput)
	}
	if len(p.Hashtags) > MaxHashtags {
		return fmt.Errorf("%w: %d hashtags exceeds limit %d", domain.ErrInvalidOutput, len(p.Hashtags), MaxHashtags)
	}
	if p.VoiceFit < 0 {
		p.VoiceFit = 0
	}
	if p.VoiceFit > 100 {
		p.VoiceFit = 100
	}
	return nil
}

func roleInstruction(role Role) string {
	switch role {
	case RoleStoryteller:
		return "Write from lived experience. Open with a concrete personal moment, build to one transferable lesson."
	case RoleContrarian:
		return "Challenge the conventional wisdom on this topic. Take a defensible opposing position and argue it crisply."
	case RoleDataDriven:
		return "Lead with a number or finding. Support every claim with evidence and close with a practical takeaway."
	default:
		return "Write a clear, engaging post on the topic."
	}
}

// buildPrompt renders the user prompt for one agent from the topic, the
// enrichment digest and any voice guidance.
func buildPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one %s post about: %s\n\n", req.Request.Platform, req.Request.Topic)
	fmt.Fprintf(&b, "Angle: %s\n", roleInstruction(req.Role))
	if req.Request.VoiceGuideline != "" {
		fmt.Fprintf(&b, "Voice guidance: %s\n", req.Request.VoiceGuideline)
	}
	if req.Request.Tone != "" {
		fmt.Fprintf(&b, "Requested tone: %s\n", req.Request.Tone)
	}

	d := req.Digest
	fmt.Fprintf(&b, "\nTarget length: about %d words.\n", d.AvgWordCount)
	if d.DominantTone != "" {
		fmt.Fprintf(&b, "Dominant tone of top performers: %s.\n", d.DominantTone)
	}
	if len(d.OpeningPatterns) > 0 {
		fmt.Fprintf(&b, "Openings that performed well: %s.\n", strings.Join(d.OpeningPatterns, "; "))
	}
	if len(d.RecommendedStructures) > 0 {
		fmt.Fprintf(&b, "Recommended structures: %s.\n", strings.Join(d.RecommendedStructures, ", "))
	}
	if len(d.ResearchSnippets) > 0 {
		b.WriteString("\nCurrent context:\n")
		for _, s := range d.ResearchSnippets {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	b.WriteString("\nRespond with JSON only: {\"body\": string, \"hashtags\": [string], \"voice_fit\": integer 0-100 rating how well the post matches the voice guidance}.")
	return b.String()
}

const systemPrompt = "You are a social media ghostwriter. You respond with a single valid JSON object and nothing else."
