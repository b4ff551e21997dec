package domain

import (
	"fmt"
	"strings"
)

// Platform enumerates the social networks a post can target.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// ValidPlatform reports whether p is one of the supported platforms.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram:
		return true
	}
	return false
}

// GenerationRequest is the immutable input to the pipeline. It is captured
// at submission time and carried verbatim inside the queue task payload.
type GenerationRequest struct {
	Topic          string   `json:"topic"`
	Platform       Platform `json:"platform"`
	VoiceGuideline string   `json:"voice_guideline,omitempty"`
	PostType       string   `json:"post_type,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
}

// Validate checks the request before it is accepted into the queue.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if !ValidPlatform(r.Platform) {
		return fmt.Errorf("%w: unsupported platform %q", ErrInvalidRequest, r.Platform)
	}
	return nil
}
