package config

import (
	"errors"

	"github.com/robgonnella/portprobe/internal/exception"
)

// ProfileService implements the Service interface on top of a Repo
type ProfileService struct {
	repo Repo
}

// NewProfileService returns a new instance of ProfileService
func NewProfileService(repo Repo) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) Get(name string) (*Profile, error) {
	return s.repo.Get(name)
}

func (s *ProfileService) GetAll() ([]*Profile, error) {
	return s.repo.GetAll()
}

// Save creates the profile or updates it if one with the same name exists
func (s *ProfileService) Save(profile *Profile) (*Profile, error) {
	_, err := s.repo.Get(profile.Name)

	if errors.Is(err, exception.ErrRecordNotFound) {
		return s.repo.Create(profile)
	}

	if err != nil {
		return nil, err
	}

	return s.repo.Update(profile)
}

func (s *ProfileService) Delete(name string) error {
	return s.repo.Delete(name)
}

// Load returns the named profile and marks it as the last loaded
func (s *ProfileService) Load(name string) (*Profile, error) {
	profile, err := s.repo.Get(name)

	if err != nil {
		return nil, err
	}

	if err := s.repo.SetLastLoaded(name); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *ProfileService) LastLoaded() (*Profile, error) {
	return s.repo.LastLoaded()
}
