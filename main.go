package main

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/robgonnella/portprobe/cli/commands"
	app_info "github.com/robgonnella/portprobe/internal/app-info"
	"github.com/robgonnella/portprobe/internal/core"
	"github.com/robgonnella/portprobe/internal/logger"
	"github.com/spf13/viper"
)

/**
 * Main entry point for all commands
 * Here we setup environment config via viper
 */

func setRunTimeConfig() error {
	userHomeDir, err := os.UserHomeDir()

	if err != nil {
		return err
	}

	configDir := path.Join(userHomeDir, ".config", app_info.NAME)

	if err := os.MkdirAll(configDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	userCacheDir, err := os.UserCacheDir()

	if err != nil {
		return err
	}

	cacheDir := path.Join(userCacheDir, app_info.NAME)

	if err := os.MkdirAll(cacheDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	// share run-time config globally using viper
	viper.Set("log-file", path.Join(configDir, app_info.NAME+".log"))
	viper.Set("config-dir", configDir)
	viper.Set("config-file", path.Join(configDir, app_info.NAME+".yml"))
	viper.Set("cache-dir", cacheDir)
	viper.Set("database-file", path.Join(cacheDir, app_info.NAME+".db"))

	return nil
}

// Entry point for the cli
func main() {
	log := logger.New()

	if err := setRunTimeConfig(); err != nil {
		log.Fatal().Err(err).Msg("")
	}

	appCore, err := core.CreateNewAppCore()

	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	// Get the "root" cobra cli command
	cmd := commands.Root(&commands.CommandProps{
		Core: appCore,
	})

	// execute the cobra command and exit with error code if necessary
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
