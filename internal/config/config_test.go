package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robgonnella/portprobe/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	t.Run("loads defaults when file is missing", func(st *testing.T) {
		conf, err := config.Load(filepath.Join(st.TempDir(), "missing.yml"))

		assert.NoError(st, err)
		assert.Equal(st, config.Default(), conf)
	})

	t.Run("overlays file values onto defaults", func(st *testing.T) {
		confPath := filepath.Join(st.TempDir(), "portprobe.yml")

		raw := []byte("scan:\n  endPort: 2048\n  timeout: 250ms\ntargets:\n  - 192.168.1.0/24\n")

		assert.NoError(st, os.WriteFile(confPath, raw, 0644))

		conf, err := config.Load(confPath)

		assert.NoError(st, err)
		assert.Equal(st, uint16(1), conf.Scan.StartPort)
		assert.Equal(st, uint16(2048), conf.Scan.EndPort)
		assert.Equal(st, 250*time.Millisecond, conf.Scan.Timeout)
		assert.Equal(st, 500, conf.Scan.Concurrency)
		assert.Equal(st, []string{"192.168.1.0/24"}, conf.Targets)
	})

	t.Run("returns error for invalid yaml", func(st *testing.T) {
		confPath := filepath.Join(st.TempDir(), "portprobe.yml")

		assert.NoError(st, os.WriteFile(confPath, []byte("scan: [nope"), 0644))

		_, err := config.Load(confPath)

		assert.Error(st, err)
	})

	t.Run("merges overrides ignoring zero values", func(st *testing.T) {
		conf := config.Default()

		err := config.Merge(conf, config.Config{
			Scan: config.ScanConfig{Timeout: 50 * time.Millisecond},
		})

		assert.NoError(st, err)
		assert.Equal(st, 50*time.Millisecond, conf.Scan.Timeout)
		assert.Equal(st, uint16(1024), conf.Scan.EndPort)
	})

	t.Run("writes and reads back config", func(st *testing.T) {
		confPath := filepath.Join(st.TempDir(), "portprobe.yml")

		conf := config.Default()
		conf.Targets = []string{"localhost"}

		assert.NoError(st, config.Write(confPath, *conf))

		read, err := config.New(confPath)

		assert.NoError(st, err)
		assert.Equal(st, conf, read)
	})
}
