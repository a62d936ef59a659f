package models

import "time"

// ImageSettings is a snapshot of the generation parameters at creation time.
type ImageSettings struct {
	Temperature float64 `json:"temperature" bson:"temperature"`
	OutputType  string  `json:"outputType" bson:"output_type"`
	AspectRatio string  `json:"aspectRatio" bson:"aspect_ratio"`
}

// GeneratedImage is the persisted unit of work: a prompt, its resulting
// image reference and the settings used. Prompt and ImageURL are immutable
// once created; Timestamp is the sole ordering key (newest first).
type GeneratedImage struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	UserID      string        `json:"-" bson:"user_id"`
	SessionID   string        `json:"sessionId,omitempty" bson:"session_id,omitempty"`
	Prompt      string        `json:"prompt" bson:"prompt"`
	ImageURL    string        `json:"imageUrl" bson:"image_url"`
	TextContent string        `json:"textContent,omitempty" bson:"text_content,omitempty"`
	Timestamp   time.Time     `json:"timestamp" bson:"timestamp"`
	Settings    ImageSettings `json:"settings" bson:"settings"`
}
