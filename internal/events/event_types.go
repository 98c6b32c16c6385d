package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecipeDeleted       EventType = "recipe_deleted"
	EventRecipeImageReplaced EventType = "recipe_image_replaced"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RecipeID  int64       `json:"recipe_id"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RecipeDeletedPayload carries what cleanup needs after a recipe is gone.
type RecipeDeletedPayload struct {
	ImageRef string `json:"image_ref,omitempty"`
}

// RecipeImageReplacedPayload names the image superseded by a new upload.
type RecipeImageReplacedPayload struct {
	OldImageRef string `json:"old_image_ref"`
	NewImageRef string `json:"new_image_ref"`
}
