package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/freshplate/recipe-service/internal/events"
	"github.com/freshplate/recipe-service/internal/storage"
)

// StartImageCleanupWorker subscribes handlers that remove stored image files
// once the recipe rows referencing them are deleted or re-imaged. Removal
// failures are logged and otherwise ignored.
func StartImageCleanupWorker(dispatcher events.Dispatcher, store storage.ImageStore, logger *zap.Logger) {
	if dispatcher == nil || store == nil {
		return
	}

	remove := func(ctx context.Context, ref string) {
		if ref == "" {
			return
		}
		if err := store.Remove(ctx, ref); err != nil {
			logger.Warn("image cleanup failed", zap.String("ref", ref), zap.Error(err))
		}
	}

	dispatcher.Subscribe(events.EventRecipeDeleted, func(ctx context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.RecipeDeletedPayload); ok {
			remove(ctx, payload.ImageRef)
		}
		return nil
	})

	dispatcher.Subscribe(events.EventRecipeImageReplaced, func(ctx context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.RecipeImageReplacedPayload); ok {
			remove(ctx, payload.OldImageRef)
		}
		return nil
	})
}
