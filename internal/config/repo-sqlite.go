package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robgonnella/portprobe/internal/exception"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SqliteRepo is our repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteRepo returns a new profile sqlite repo
func NewSqliteRepo(db *gorm.DB) *SqliteRepo {
	return &SqliteRepo{
		db: db,
	}
}

// Get returns a profile from the db
func (r *SqliteRepo) Get(name string) (*Profile, error) {
	if name == "" {
		return nil, errors.New("profile name cannot be empty")
	}

	model, err := r.find(name)

	if err != nil {
		return nil, err
	}

	return modelToProfile(model)
}

// GetAll returns all profiles in db ordered by name
func (r *SqliteRepo) GetAll() ([]*Profile, error) {
	models := []ProfileModel{}

	if result := r.db.Order("name asc").Find(&models); result.Error != nil {
		return nil, result.Error
	}

	profiles := []*Profile{}

	for i := range models {
		p, err := modelToProfile(&models[i])

		if err != nil {
			return nil, err
		}

		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Create creates a new profile in db
func (r *SqliteRepo) Create(profile *Profile) (*Profile, error) {
	if profile.Name == "" {
		return nil, errors.New("profile name cannot be empty")
	}

	if _, err := r.find(profile.Name); err == nil {
		return nil, fmt.Errorf("%w: profile %s", exception.ErrRecordExists, profile.Name)
	} else if !errors.Is(err, exception.ErrRecordNotFound) {
		return nil, err
	}

	model, err := profileToModel(profile)

	if err != nil {
		return nil, err
	}

	model.ID = 0

	if result := r.db.Create(model); result.Error != nil {
		return nil, result.Error
	}

	return modelToProfile(model)
}

// Update updates a profile in db matched by name
func (r *SqliteRepo) Update(profile *Profile) (*Profile, error) {
	if profile.Name == "" {
		return nil, errors.New("profile name cannot be empty")
	}

	existing, err := r.find(profile.Name)

	if err != nil {
		return nil, err
	}

	model, err := profileToModel(profile)

	if err != nil {
		return nil, err
	}

	model.ID = existing.ID
	model.Loaded = existing.Loaded

	if result := r.db.Save(model); result.Error != nil {
		return nil, result.Error
	}

	return modelToProfile(model)
}

// Delete deletes a profile from db
func (r *SqliteRepo) Delete(name string) error {
	if name == "" {
		return errors.New("profile name cannot be empty")
	}

	return r.db.Where("name = ?", name).Delete(&ProfileModel{}).Error
}

// SetLastLoaded updates a profile's "loaded" field to the current timestamp
func (r *SqliteRepo) SetLastLoaded(name string) error {
	model, err := r.find(name)

	if err != nil {
		return err
	}

	model.Loaded = time.Now()

	return r.db.Save(model).Error
}

// LastLoaded returns the most recently loaded profile
func (r *SqliteRepo) LastLoaded() (*Profile, error) {
	model := ProfileModel{}

	if result := r.db.Order("loaded desc").First(&model); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return modelToProfile(&model)
}

func (r *SqliteRepo) find(name string) (*ProfileModel, error) {
	model := ProfileModel{}

	if result := r.db.Where("name = ?", name).First(&model); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return &model, nil
}

// helpers
func modelToProfile(model *ProfileModel) (*Profile, error) {
	targets := []string{}

	if len(model.Targets) > 0 {
		if err := json.Unmarshal([]byte(model.Targets), &targets); err != nil {
			return nil, err
		}
	}

	return &Profile{
		ID:        model.ID,
		Name:      model.Name,
		Targets:   targets,
		StartPort: model.StartPort,
		EndPort:   model.EndPort,
		Timeout:   model.Timeout,
		Loaded:    model.Loaded,
	}, nil
}

func profileToModel(profile *Profile) (*ProfileModel, error) {
	targets := profile.Targets

	if targets == nil {
		targets = []string{}
	}

	targetsBytes, err := json.Marshal(targets)

	if err != nil {
		return nil, err
	}

	return &ProfileModel{
		ID:        profile.ID,
		Name:      profile.Name,
		Targets:   datatypes.JSON(targetsBytes),
		StartPort: profile.StartPort,
		EndPort:   profile.EndPort,
		Timeout:   profile.Timeout,
		Loaded:    profile.Loaded,
	}, nil
}
