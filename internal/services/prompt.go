package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/markyai/studio-backend/internal/models"
)

// ErrEmptyPrompt is returned for empty or whitespace-only prompts.
// The relay is never called in that case.
var ErrEmptyPrompt = errors.New("prompt is required")

// marketingInstruction is the fixed boilerplate wrapped around every user prompt.
const marketingInstruction = "Create an ultra-high-resolution, professionally detailed marketing image with perfectly readable text based on this description: %s. Generate exceptional quality with ultra-sharp details, completely legible text, vibrant colors, and photorealistic precision optimized for professional marketing use."

// aspectRatioByOutputType maps output presets to their default aspect ratio.
var aspectRatioByOutputType = map[string]string{
	"General":             "Auto",
	"Image Ads":           "1:1",
	"Banner Image":        "16:9",
	"Product Image":       "1:1",
	"Social Media Square": "1:1",
	"Social Media Story":  "9:16",
}

// ComposedPrompt is the payload handed to the generation relay.
type ComposedPrompt struct {
	Text        string
	UserPrompt  string // original prompt as typed, echoed back to the caller
	Temperature float64
	AspectRatio string
	Reference   []byte // optional reference photo, passed through unmodified
}

// ComposePrompt trims the user prompt, wraps it with the marketing
// instruction boilerplate and resolves the aspect ratio from the settings.
func ComposePrompt(prompt string, settings models.ImageSettings, reference []byte) (*ComposedPrompt, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	return &ComposedPrompt{
		Text:        fmt.Sprintf(marketingInstruction, prompt),
		UserPrompt:  prompt,
		Temperature: settings.Temperature,
		AspectRatio: ResolveAspectRatio(settings),
		Reference:   reference,
	}, nil
}

// ResolveAspectRatio returns the settings' aspect ratio, deriving it from
// the output type preset when unset or "Auto" ("General" stays "Auto",
// which lets the provider pick its default).
func ResolveAspectRatio(settings models.ImageSettings) string {
	if settings.AspectRatio != "" && settings.AspectRatio != "Auto" {
		return settings.AspectRatio
	}
	if ratio, ok := aspectRatioByOutputType[settings.OutputType]; ok {
		return ratio
	}
	return "Auto"
}
