package config

import (
	"os"
	"time"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

// ScanConfig represents default scan parameters
type ScanConfig struct {
	StartPort   uint16        `yaml:"startPort"`
	EndPort     uint16        `yaml:"endPort"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// Config represents the data structure of our user provided yaml configuration
type Config struct {
	Scan    ScanConfig `yaml:"scan"`
	Targets []string   `yaml:"targets"`
}

// New returns umarshaled data structure of user provided config
func New(confPath string) (*Config, error) {
	var config Config

	raw, err := os.ReadFile(confPath)

	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the built in configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			StartPort:   1,
			EndPort:     1024,
			Timeout:     time.Second,
			Concurrency: 500,
		},
		Targets: []string{},
	}
}

// Load returns the default configuration overlaid with any non-zero values
// found in the config file at confPath. A missing file is not an error.
func Load(confPath string) (*Config, error) {
	conf := Default()

	fileConf, err := New(confPath)

	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}

		return nil, err
	}

	if err := Merge(conf, *fileConf); err != nil {
		return nil, err
	}

	return conf, nil
}

// Merge overlays the non-zero values of overrides onto conf
func Merge(conf *Config, overrides Config) error {
	return mergo.Merge(conf, overrides, mergo.WithOverride)
}

// Write writes the config as yaml to confPath
func Write(confPath string, conf Config) error {
	file, err := os.Create(confPath)

	if err != nil {
		return err
	}

	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)

	return encoder.Encode(conf)
}
