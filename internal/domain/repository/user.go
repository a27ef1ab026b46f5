package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

// UserRepository describes persistence operations with marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string, role model.Role, storeID uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
