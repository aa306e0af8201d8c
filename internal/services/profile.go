package services

import (
	"github.com/boatnoah/lumo/internal/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, notFound("profile not found")
	}
	return &profile, nil
}

type ProfileUpdate struct {
	DisplayName *string
	Role        *string
	Avatar      *string
}

// Update applies onboarding changes. Role moves from pending to
// teacher or student exactly once.
func (s *ProfileService) Update(userID uint, update ProfileUpdate) (*models.Profile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if update.Role != nil {
		role := *update.Role
		if role != models.RoleTeacher && role != models.RoleStudent {
			return nil, badRequest("role must be teacher or student")
		}
		if profile.Role != models.RolePending && profile.Role != role {
			return nil, badRequest("role is already set")
		}
		profile.Role = role
	}

	if update.DisplayName != nil && *update.DisplayName != "" {
		profile.DisplayName = *update.DisplayName
	}
	if update.Avatar != nil {
		profile.Avatar = *update.Avatar
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
