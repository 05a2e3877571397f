package service

import (
	"context"
	"time"

	"samaajseva/pkg/core/user/model"
	"samaajseva/pkg/core/user/repository/dao"
)

// ProfileView is the decoded profile. Absent values are empty strings, zero
// and empty slices so clients never see null lists.
type ProfileView struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	Bio          string     `json:"bio"`
	City         string     `json:"city"`
	Skills       []string   `json:"skills"`
	Interests    []string   `json:"interests"`
	CurrentBadge *string    `json:"current_badge"`
	CIS          int        `json:"cis"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProfileUpdate replaces all four fields; omitted ones become empty.
type ProfileUpdate struct {
	Bio       string
	City      string
	Skills    []string
	Interests []string
}

type ProfileService struct {
	users dao.UserRepository
}

func NewProfileService(users dao.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uint64) (ProfileView, error) {
	user, err := s.users.QueryByID(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}

	view := ProfileView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Bio:       user.Bio,
		City:      user.City,
		Skills:    SplitList(user.Skills),
		Interests: SplitList(user.Interests),
		CIS:       user.CIS,
		CreatedAt: user.CreatedAt,
	}
	if user.CurrentBadge != nil && *user.CurrentBadge != "" {
		badge := *user.CurrentBadge
		view.CurrentBadge = &badge
	}
	return view, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uint64, in ProfileUpdate) error {
	skills, err := JoinList("skills", in.Skills)
	if err != nil {
		return err
	}
	interests, err := JoinList("interests", in.Interests)
	if err != nil {
		return err
	}
	return s.users.UpdateProfile(ctx, id, model.ProfileFields{
		Bio:       in.Bio,
		City:      in.City,
		Skills:    skills,
		Interests: interests,
	})
}
