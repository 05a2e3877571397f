package service

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/need/model"
	"samaajseva/pkg/core/need/repository/dao"
)

// DefaultQuantity is pledged when a commitment names no quantity.
const DefaultQuantity = 1

// MaxQuantity bounds a single commitment.
const MaxQuantity = 1_000_000

type PostNeedInput struct {
	Title          string
	Domain         string
	State          string
	District       string
	LocalArea      string
	PeopleAffected int
	ResourceType   string
	UrgencyReason  string
	Timeline       string
	Description    string
}

type ListQuery struct {
	NGOID    uint64
	OpenOnly bool
	Domain   string
	Sort     string
}

type Options struct {
	FulfillmentThreshold int
	TitleLocale          string
}

type NeedService struct {
	needs     dao.NeedRepository
	threshold int
	locale    language.Tag
}

func NewNeedService(needs dao.NeedRepository, opts Options) *NeedService {
	tag, err := language.Parse(opts.TitleLocale)
	if err != nil {
		hlog.Warnf("invalid title locale %q, using und: %v", opts.TitleLocale, err)
		tag = language.Und
	}
	return &NeedService{needs: needs, threshold: opts.FulfillmentThreshold, locale: tag}
}

// PostNeed creates a pending need owned by ngoID.
func (s *NeedService) PostNeed(ctx context.Context, in PostNeedInput, ngoID uint64) (model.Need, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Domain = strings.TrimSpace(in.Domain)
	in.State = strings.TrimSpace(in.State)
	in.District = strings.TrimSpace(in.District)
	in.ResourceType = strings.TrimSpace(in.ResourceType)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"domain", in.Domain},
		{"state", in.State},
		{"district", in.District},
		{"resourceType", in.ResourceType},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.Need{}, apperrors.MissingFields(missing...)
	}
	if in.PeopleAffected < 0 {
		return model.Need{}, apperrors.Validation("peopleAffected must not be negative.")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Need{}, apperrors.Internal(err)
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = in.Title
	}

	need := model.Need{
		ID:                id.String(),
		NGOID:             ngoID,
		Title:             in.Title,
		Domain:            in.Domain,
		DomainSlug:        model.DomainSlug(in.Domain),
		State:             in.State,
		District:          in.District,
		LocalArea:         strings.TrimSpace(in.LocalArea),
		PeopleAffected:    in.PeopleAffected,
		ResourceType:      in.ResourceType,
		UrgencyReason:     strings.TrimSpace(in.UrgencyReason),
		Timeline:          strings.TrimSpace(in.Timeline),
		Description:       description,
		Status:            model.StatusPending,
		QuantityCommitted: 0,
		Version:           1,
	}
	if err := s.needs.CreateNeed(ctx, &need); err != nil {
		return model.Need{}, err
	}

	hlog.CtxInfof(ctx, "need posted id=%s ngo=%d domain=%s", need.ID, ngoID, need.DomainSlug)
	return need, nil
}

// CommitToNeed pledges quantity units from donorID. Zero means
// DefaultQuantity. A second commitment by the same donor is rejected with
// ErrAlreadyCommitted rather than ignored.
func (s *NeedService) CommitToNeed(ctx context.Context, needID string, donorID uint64, quantity int) (model.Need, error) {
	needID = strings.TrimSpace(needID)
	if needID == "" {
		return model.Need{}, apperrors.MissingFields("needId")
	}
	if quantity < 0 {
		return model.Need{}, apperrors.Validation("quantity must be positive.")
	}
	if quantity > MaxQuantity {
		return model.Need{}, apperrors.Validation("quantity must not exceed 1000000.")
	}
	if quantity == 0 {
		quantity = DefaultQuantity
	}

	need, err := s.needs.Commit(ctx, dao.CommitRequest{
		NeedID:               needID,
		DonorID:              donorID,
		Quantity:             quantity,
		FulfillmentThreshold: s.threshold,
	})
	if err != nil {
		return model.Need{}, err
	}

	hlog.CtxInfof(ctx, "commitment need=%s donor=%d quantity=%d total=%d status=%s",
		needID, donorID, quantity, need.QuantityCommitted, need.Status)
	return need, nil
}

func (s *NeedService) GetNeed(ctx context.Context, id string) (model.Need, error) {
	return s.needs.QueryByID(ctx, strings.TrimSpace(id))
}

// ListNeeds filters in the database and sorts in memory, since priority is
// derived and title order is locale-aware.
func (s *NeedService) ListNeeds(ctx context.Context, q ListQuery) ([]model.Need, error) {
	key, ok := model.ParseSortKey(q.Sort)
	if !ok {
		return nil, apperrors.Validation("sort must be one of priority, date, title.")
	}

	needs, err := s.needs.List(ctx, dao.NeedQuery{
		NGOID:      q.NGOID,
		DomainSlug: model.DomainFilter(q.Domain),
		OpenOnly:   q.OpenOnly,
	})
	if err != nil {
		return nil, err
	}
	return model.SortNeeds(needs, key, s.locale), nil
}

// DonorCommitments returns the ids of the needs donorID committed to, oldest
// first.
func (s *NeedService) DonorCommitments(ctx context.Context, donorID uint64) ([]string, error) {
	commitments, err := s.needs.CommitmentsByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(commitments))
	for _, c := range commitments {
		ids = append(ids, c.NeedID)
	}
	return ids, nil
}
