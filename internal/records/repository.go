package records

import "context"

// ListFilter narrows a listing. AnimalID empty means all animals on
// the farm.
type ListFilter struct {
	AnimalID string
}

// HealthRepository defines the interface for health record persistence.
// Every method is farm-scoped.
type HealthRepository interface {
	Create(ctx context.Context, rec *HealthRecord) error
	GetByID(ctx context.Context, farmID, id string) (*HealthRecord, error)
	List(ctx context.Context, farmID string, filter ListFilter) ([]*HealthRecord, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch HealthPatch) (*HealthRecord, error)
	Delete(ctx context.Context, farmID, id string) error
}

// FeedingRepository defines the interface for feeding record persistence
type FeedingRepository interface {
	Create(ctx context.Context, rec *FeedingRecord) error
	GetByID(ctx context.Context, farmID, id string) (*FeedingRecord, error)
	List(ctx context.Context, farmID string, filter ListFilter) ([]*FeedingRecord, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch FeedingPatch) (*FeedingRecord, error)
	Delete(ctx context.Context, farmID, id string) error
}

// BreedingRepository defines the interface for breeding record persistence
type BreedingRepository interface {
	Create(ctx context.Context, rec *BreedingRecord) error
	GetByID(ctx context.Context, farmID, id string) (*BreedingRecord, error)
	List(ctx context.Context, farmID string) ([]*BreedingRecord, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch BreedingPatch) (*BreedingRecord, error)
	Delete(ctx context.Context, farmID, id string) error
}

// ProductionRepository defines the interface for production record persistence
type ProductionRepository interface {
	Create(ctx context.Context, rec *ProductionRecord) error
	GetByID(ctx context.Context, farmID, id string) (*ProductionRecord, error)
	List(ctx context.Context, farmID string, filter ListFilter) ([]*ProductionRecord, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch ProductionPatch) (*ProductionRecord, error)
	Delete(ctx context.Context, farmID, id string) error
}
