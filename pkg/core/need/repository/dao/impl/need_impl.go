package dao

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/need/model"
	"samaajseva/pkg/core/need/repository/dao"
)

var errVersionConflict = errors.New("need version changed during commit")

type GormNeedRepository struct {
	db *gorm.DB
}

var _ dao.NeedRepository = (*GormNeedRepository)(nil)

func NewGormNeedRepository(db *gorm.DB) *GormNeedRepository {
	return &GormNeedRepository{db: db}
}

func (r *GormNeedRepository) CreateNeed(ctx context.Context, need *model.Need) error {
	if err := r.db.WithContext(ctx).Create(need).Error; err != nil {
		return apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
	}
	return nil
}

func (r *GormNeedRepository) QueryByID(ctx context.Context, id string) (model.Need, error) {
	var need model.Need
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&need).Error; err != nil {
		return model.Need{}, apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
	}
	return need, nil
}

func (r *GormNeedRepository) List(ctx context.Context, q dao.NeedQuery) ([]model.Need, error) {
	tx := r.db.WithContext(ctx).Model(&model.Need{})
	if q.NGOID != 0 {
		tx = tx.Where("ngo_id = ?", q.NGOID)
	}
	if q.DomainSlug != "" {
		tx = tx.Where("domain_slug = ?", q.DomainSlug)
	}
	if q.OpenOnly {
		tx = tx.Where("status <> ?", model.StatusFulfilled)
	}

	var needs []model.Need
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&needs).Error; err != nil {
		return nil, apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
	}
	return needs, nil
}

func (r *GormNeedRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Need, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var needs []model.Need
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&needs).Error; err != nil {
		return nil, apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
	}
	return needs, nil
}

// Commit records the commitment and bumps the need inside one transaction.
// The need row is locked first; the UPDATE is additionally guarded by the
// version column, and the (need_id, donor_id) unique index rejects repeats
// even if two requests from the same donor race.
func (r *GormNeedRepository) Commit(ctx context.Context, req dao.CommitRequest) (model.Need, error) {
	var updated model.Need
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var need model.Need
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", req.NeedID).
			First(&need).Error; err != nil {
			return apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
		}

		var existing int64
		if err := tx.Model(&model.Commitment{}).
			Where("need_id = ? AND donor_id = ?", req.NeedID, req.DonorID).
			Count(&existing).Error; err != nil {
			return apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
		}
		if existing > 0 {
			return apperrors.ErrAlreadyCommitted
		}
		if !need.IsOpen() {
			return apperrors.ErrNeedFulfilled
		}

		if req.Quantity <= 0 {
			return apperrors.Validation("quantity must be positive.")
		}
		// the running total stays within a 32-bit column on every dialect
		if req.Quantity > math.MaxInt32-need.QuantityCommitted {
			return apperrors.Validation("quantity would overflow the committed total.")
		}

		commitment := model.Commitment{
			NeedID:   req.NeedID,
			DonorID:  req.DonorID,
			Quantity: req.Quantity,
		}
		if err := tx.Create(&commitment).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.ErrAlreadyCommitted
			}
			return apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
		}

		quantity := need.QuantityCommitted + req.Quantity
		status := need.Status
		if req.FulfillmentThreshold > 0 && quantity >= req.FulfillmentThreshold {
			status = model.StatusFulfilled
		}
		now := time.Now()

		result := tx.Model(&model.Need{}).
			Where("id = ? AND version = ?", need.ID, need.Version).
			Updates(map[string]interface{}{
				"quantity_committed": quantity,
				"status":             status,
				"version":            need.Version + 1,
				"updated_at":         now,
			})
		if result.Error != nil {
			return apperrors.WrapGormError(result.Error, apperrors.ErrNeedNotFound)
		}
		if result.RowsAffected == 0 {
			return apperrors.Internal(errVersionConflict)
		}

		need.QuantityCommitted = quantity
		need.Status = status
		need.Version++
		need.UpdatedAt = now
		updated = need
		return nil
	})
	if err != nil {
		return model.Need{}, err
	}
	return updated, nil
}

func (r *GormNeedRepository) CommitmentsByDonor(ctx context.Context, donorID uint64) ([]model.Commitment, error) {
	var commitments []model.Commitment
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at ASC").Order("id ASC").
		Find(&commitments).Error
	if err != nil {
		return nil, apperrors.WrapGormError(err, apperrors.ErrNeedNotFound)
	}
	return commitments, nil
}
