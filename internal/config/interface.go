package config

import "time"

//go:generate mockgen -destination=../mock/config/mock_config.go -package=mock_config . Repo,Service

// Profile represents a named, reusable set of scan parameters
type Profile struct {
	ID        int
	Name      string
	Targets   []string
	StartPort uint16
	EndPort   uint16
	Timeout   time.Duration
	Loaded    time.Time
}

// Repo interface representing access to stored profiles
type Repo interface {
	Get(name string) (*Profile, error)
	GetAll() ([]*Profile, error)
	Create(profile *Profile) (*Profile, error)
	Update(profile *Profile) (*Profile, error)
	Delete(name string) error
	SetLastLoaded(name string) error
	LastLoaded() (*Profile, error)
}

// Service interface for manipulating profiles
type Service interface {
	Get(name string) (*Profile, error)
	GetAll() ([]*Profile, error)
	Save(profile *Profile) (*Profile, error)
	Delete(name string) error
	Load(name string) (*Profile, error)
	LastLoaded() (*Profile, error)
}
