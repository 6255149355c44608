package service

import (
	"strings"

	"github.com/pathwise/pathwise/internal/model"
	"github.com/pathwise/pathwise/internal/repository"
	"github.com/pathwise/pathwise/internal/sanitize"
	"github.com/pathwise/pathwise/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

func (s *ProfileService) Create(profile *model.Profile) error {
	return s.profileRepo.Create(profile)
}

func (s *ProfileService) Update(userID string, updated *model.Profile) error {
	name := strings.TrimSpace(updated.Name)

	err := validation.ValidateName(name)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}

	profile.Name = name
	profile.Role = sanitize.Title(updated.Role)
	profile.Industry = sanitize.Title(updated.Industry)
	profile.ExperienceYears = updated.ExperienceYears
	profile.Skills = sanitize.Text(updated.Skills, sanitize.MaxProfileLen)
	profile.CareerGoals = sanitize.Text(updated.CareerGoals, sanitize.MaxProfileLen)

	return s.profileRepo.Update(profile)
}
