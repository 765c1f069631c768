package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/robgonnella/portprobe/internal/config"
	"github.com/robgonnella/portprobe/internal/exception"
	mock_config "github.com/robgonnella/portprobe/internal/mock/config"
	"github.com/stretchr/testify/assert"
)

func TestProfileService(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	mockRepo := mock_config.NewMockRepo(ctrl)

	service := config.NewProfileService(mockRepo)

	profile := &config.Profile{
		Name:      "test",
		Targets:   []string{"127.0.0.1"},
		StartPort: 1,
		EndPort:   100,
		Timeout:   time.Second,
	}

	t.Run("gets profile", func(st *testing.T) {
		mockRepo.EXPECT().Get("test").Return(profile, nil)

		found, err := service.Get("test")

		assert.NoError(st, err)
		assert.Equal(st, profile, found)
	})

	t.Run("gets all profiles", func(st *testing.T) {
		expected := []*config.Profile{profile}

		mockRepo.EXPECT().GetAll().Return(expected, nil)

		found, err := service.GetAll()

		assert.NoError(st, err)
		assert.Equal(st, expected, found)
	})

	t.Run("saves new profile", func(st *testing.T) {
		mockRepo.EXPECT().Get(profile.Name).Return(nil, exception.ErrRecordNotFound)
		mockRepo.EXPECT().Create(profile).Return(profile, nil)

		saved, err := service.Save(profile)

		assert.NoError(st, err)
		assert.Equal(st, profile, saved)
	})

	t.Run("saves existing profile", func(st *testing.T) {
		mockRepo.EXPECT().Get(profile.Name).Return(profile, nil)
		mockRepo.EXPECT().Update(profile).Return(profile, nil)

		saved, err := service.Save(profile)

		assert.NoError(st, err)
		assert.Equal(st, profile, saved)
	})

	t.Run("returns unexpected lookup errors on save", func(st *testing.T) {
		dbErr := errors.New("db error")

		mockRepo.EXPECT().Get(profile.Name).Return(nil, dbErr)

		saved, err := service.Save(profile)

		assert.Nil(st, saved)
		assert.Equal(st, dbErr, err)
	})

	t.Run("deletes profile", func(st *testing.T) {
		mockRepo.EXPECT().Delete("test").Return(nil)

		err := service.Delete("test")

		assert.NoError(st, err)
	})

	t.Run("loads profile and marks it last loaded", func(st *testing.T) {
		mockRepo.EXPECT().Get("test").Return(profile, nil)
		mockRepo.EXPECT().SetLastLoaded("test").Return(nil)

		loaded, err := service.Load("test")

		assert.NoError(st, err)
		assert.Equal(st, profile, loaded)
	})

	t.Run("gets last loaded profile", func(st *testing.T) {
		mockRepo.EXPECT().LastLoaded().Return(profile, nil)

		found, err := service.LastLoaded()

		assert.NoError(st, err)
		assert.Equal(st, profile, found)
	})
}
