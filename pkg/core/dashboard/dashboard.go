// Package dashboard computes read-only per-user projections over needs and
// commitments. Nothing here mutates state; every call recomputes.
package dashboard

import (
	"context"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/need/model"
	needdao "samaajseva/pkg/core/need/repository/dao"
	userdao "samaajseva/pkg/core/user/repository/dao"
)

// PriorityCounts counts needs per derived priority.
type PriorityCounts struct {
	High   int `json:"HIGH"`
	Medium int `json:"MEDIUM"`
	Low    int `json:"LOW"`
}

func (c *PriorityCounts) add(p model.Priority) {
	switch p {
	case model.PriorityHigh:
		c.High++
	case model.PriorityMedium:
		c.Medium++
	case model.PriorityLow:
		c.Low++
	}
}

// Metrics with no backing data are nil pointers and named in
// Report.NotImplemented instead of being reported as zero.
type NGOMetrics struct {
	TotalRequests     int            `json:"totalRequests"`
	OpenRequests      int            `json:"openRequests"`
	CompletedRequests int            `json:"completedRequests"`
	ByPriority        PriorityCounts `json:"byPriority"`
	Campaigns         *int           `json:"campaigns"`
	Volunteers        *int           `json:"volunteers"`
	FundsRaised       *int64         `json:"fundsRaised"`
	MLPredictions     *int           `json:"mlPredictions"`
}

type DonorMetrics struct {
	CommittedNeeds     int `json:"committedNeeds"`
	QuantityPledged    int `json:"quantityPledged"`
	CommittedOpen      int `json:"committedOpen"`
	CommittedFulfilled int `json:"committedFulfilled"`
	OpenHighPriority   int `json:"openHighPriority"`
}

type VolunteerMetrics struct {
	TotalHours       *float64 `json:"totalHours"`
	UpcomingProjects *int     `json:"upcomingProjects"`
}

type Report struct {
	Metrics        interface{} `json:"metrics"`
	NotImplemented []string    `json:"notImplemented"`
}

// SummarizeNGO projects the needs owned by one NGO.
func SummarizeNGO(needs []model.Need) NGOMetrics {
	var m NGOMetrics
	for _, n := range needs {
		m.TotalRequests++
		if n.Status == model.StatusFulfilled {
			m.CompletedRequests++
		} else {
			m.OpenRequests++
		}
		m.ByPriority.add(n.Priority())
	}
	return m
}

// SummarizeDonor projects a donor's commitments against the needs they point
// at; open is every currently open need.
func SummarizeDonor(commitments []model.Commitment, committed []model.Need, open []model.Need) DonorMetrics {
	var m DonorMetrics
	m.CommittedNeeds = len(commitments)
	for _, c := range commitments {
		m.QuantityPledged += c.Quantity
	}
	for _, n := range committed {
		if n.IsOpen() {
			m.CommittedOpen++
		} else {
			m.CommittedFulfilled++
		}
	}
	for _, n := range open {
		if n.IsOpen() && n.Priority() == model.PriorityHigh {
			m.OpenHighPriority++
		}
	}
	return m
}

type Service struct {
	users userdao.UserRepository
	needs needdao.NeedRepository
}

func NewService(users userdao.UserRepository, needs needdao.NeedRepository) *Service {
	return &Service{users: users, needs: needs}
}

func (s *Service) requireUser(ctx context.Context, id uint64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *Service) NGO(ctx context.Context, ngoID uint64) (Report, error) {
	if err := s.requireUser(ctx, ngoID); err != nil {
		return Report{}, err
	}
	needs, err := s.needs.List(ctx, needdao.NeedQuery{NGOID: ngoID})
	if err != nil {
		return Report{}, err
	}
	return Report{
		Metrics:        SummarizeNGO(needs),
		NotImplemented: []string{"campaigns", "volunteers", "fundsRaised", "mlPredictions"},
	}, nil
}

func (s *Service) Donor(ctx context.Context, donorID uint64) (Report, error) {
	if err := s.requireUser(ctx, donorID); err != nil {
		return Report{}, err
	}
	commitments, err := s.needs.CommitmentsByDonor(ctx, donorID)
	if err != nil {
		return Report{}, err
	}
	ids := make([]string, 0, len(commitments))
	for _, c := range commitments {
		ids = append(ids, c.NeedID)
	}
	committed, err := s.needs.ListByIDs(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	open, err := s.needs.List(ctx, needdao.NeedQuery{OpenOnly: true})
	if err != nil {
		return Report{}, err
	}
	return Report{
		Metrics:        SummarizeDonor(commitments, committed, open),
		NotImplemented: []string{},
	}, nil
}

// Volunteer has no data source yet; only the user lookup is real.
func (s *Service) Volunteer(ctx context.Context, volunteerID uint64) (Report, error) {
	if err := s.requireUser(ctx, volunteerID); err != nil {
		return Report{}, err
	}
	return Report{
		Metrics:        VolunteerMetrics{},
		NotImplemented: []string{"totalHours", "upcomingProjects"},
	}, nil
}
