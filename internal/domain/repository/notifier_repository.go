package repository

import (
	"context"

	"fare-tracker-service/internal/domain/entity"
)

// Notifier defines the interface for publishing run outcomes
type Notifier interface {
	Notify(ctx context.Context, report *entity.RunReport) error
}
