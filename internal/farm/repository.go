package farm

import (
	"context"
	"errors"
)

var (
	ErrFarmNotFound = errors.New("farm not found")
)

// Repository defines the interface for farm storage
type Repository interface {
	Create(ctx context.Context, farm *Farm) error
	GetByID(ctx context.Context, id string) (*Farm, error)
	GetByName(ctx context.Context, name string) (*Farm, error)
	Update(ctx context.Context, farm *Farm) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Farm, error)
}
