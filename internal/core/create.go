package core

import (
	"errors"

	"github.com/robgonnella/portprobe/internal/config"
	"github.com/robgonnella/portprobe/internal/event"
	"github.com/robgonnella/portprobe/internal/prober"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// getSqliteDbConnection creates and returns a sqlite database connection
func getSqliteDbConnection(dbFile string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})

	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&config.ProfileModel{}); err != nil {
		return nil, err
	}

	return db, nil
}

// CreateNewAppCore creates and returns a new instance of *core.Core
func CreateNewAppCore() (*Core, error) {
	configFile, ok := viper.Get("config-file").(string)

	if !ok {
		return nil, errors.New("failed to find config file path")
	}

	dbFile, ok := viper.Get("database-file").(string)

	if !ok {
		return nil, errors.New("failed to find database file path")
	}

	conf, err := config.Load(configFile)

	if err != nil {
		return nil, err
	}

	db, err := getSqliteDbConnection(dbFile)

	if err != nil {
		return nil, err
	}

	profileRepo := config.NewSqliteRepo(db)
	profileService := config.NewProfileService(profileRepo)

	events := event.NewEventManager()

	scanner := prober.New(
		prober.WithConcurrency(conf.Scan.Concurrency),
		prober.WithOutcomeHandler(func(target string, outcome prober.Outcome) {
			events.Send(event.Event{
				Type:    event.ProbeEventType,
				Payload: ProbeResult{Target: target, Outcome: outcome},
			})
		}),
		prober.WithDiagnosticHandler(func(diagnostic prober.Diagnostic) {
			events.Send(event.Event{
				Type:    event.DiagnosticEventType,
				Payload: diagnostic,
			})
		}),
	)

	return New(*conf, profileService, scanner, events), nil
}
