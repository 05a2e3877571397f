package dao

import (
	"context"

	"samaajseva/pkg/core/need/model"
)

// NeedQuery narrows a listing at the storage layer. Zero values mean "any".
type NeedQuery struct {
	NGOID      uint64
	DomainSlug string
	OpenOnly   bool
}

// CommitRequest is applied atomically by Commit.
type CommitRequest struct {
	NeedID   string
	DonorID  uint64
	Quantity int
	// FulfillmentThreshold flips the need to fulfilled once reached; 0 never does.
	FulfillmentThreshold int
}

type NeedRepository interface {
	CreateNeed(ctx context.Context, need *model.Need) error
	QueryByID(ctx context.Context, id string) (model.Need, error)
	List(ctx context.Context, q NeedQuery) ([]model.Need, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Need, error)
	Commit(ctx context.Context, req CommitRequest) (model.Need, error)
	CommitmentsByDonor(ctx context.Context, donorID uint64) ([]model.Commitment, error)
}
