package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/robgonnella/portprobe/cli/commands"
	"github.com/robgonnella/portprobe/internal/core"
	"github.com/robgonnella/portprobe/internal/prober"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func execute(props *commands.CommandProps, args ...string) (string, error) {
	return executeContext(context.Background(), props, args...)
}

func executeContext(ctx context.Context, props *commands.CommandProps, args ...string) (string, error) {
	out := new(bytes.Buffer)

	cmd := commands.Root(props)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append(args, "--silent"))

	err := cmd.ExecuteContext(ctx)

	return out.String(), err
}

var diagnosticLine = regexp.MustCompile(`^([a-z-]+): (\d+)$`)

func TestCommands(t *testing.T) {
	color.NoColor = true

	dir := t.TempDir()

	viper.Set("config-file", filepath.Join(dir, "portprobe.yml"))
	viper.Set("database-file", filepath.Join(dir, "portprobe.db"))

	defer viper.Reset()

	appCore, err := core.CreateNewAppCore()

	if err != nil {
		t.Fatalf("failed to create app core: %s", err)
	}

	props := &commands.CommandProps{Core: appCore}

	listener, err := net.Listen("tcp", "127.0.0.1:0")

	if err != nil {
		t.Fatalf("failed to listen: %s", err)
	}

	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	portNum := listener.Addr().(*net.TCPAddr).Port
	port := fmt.Sprint(portNum)

	t.Run("prints version", func(st *testing.T) {
		out, err := execute(props, "version")

		assert.NoError(st, err)
		assert.Contains(st, out, "portprobe: ")
	})

	t.Run("scans a target and reports open ports", func(st *testing.T) {
		out, err := execute(props, "scan", "127.0.0.1", "-s", port, "-e", port, "--timeout", "500ms", "--no-progress")

		assert.NoError(st, err)
		assert.Equal(
			st,
			fmt.Sprintf("Scanning 127.0.0.1 from port %s to %s...\nPort %s is open\nScan complete.\n", port, port, port),
			out,
		)
	})

	t.Run("diagnostics account for every closed port", func(st *testing.T) {
		start, end := portNum, portNum+199

		if end > 65535 {
			start, end = portNum-199, portNum
		}

		out, err := execute(
			props,
			"scan", "127.0.0.1",
			"-s", fmt.Sprint(start),
			"-e", fmt.Sprint(end),
			"--timeout", "500ms",
			"--no-progress",
			"--diagnostics",
		)

		assert.NoError(st, err)

		open := 0
		failed := 0

		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "Port ") {
				open++
				continue
			}

			if m := diagnosticLine.FindStringSubmatch(line); m != nil {
				n, err := strconv.Atoi(m[2])
				assert.NoError(st, err)
				failed += n
			}
		}

		assert.GreaterOrEqual(st, open, 1)
		assert.Equal(st, end-start+1-open, failed)
	})

	t.Run("accepts an explicit zero port range", func(st *testing.T) {
		out, err := execute(props, "scan", "127.0.0.1", "-s", "0", "-e", "0", "--timeout", "200ms", "--no-progress")

		assert.NoError(st, err)
		assert.Contains(st, out, "Scanning 127.0.0.1 from port 0 to 0...")
		assert.NotContains(st, out, "is open")
	})

	t.Run("rejects an explicit zero timeout", func(st *testing.T) {
		_, err := execute(props, "scan", "127.0.0.1", "-s", port, "-e", port, "--timeout", "0s", "--no-progress")

		assert.ErrorIs(st, err, prober.ErrInvalidTimeout)
	})

	t.Run("returns cancelled when the context is cancelled", func(st *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out, err := executeContext(ctx, props, "scan", "127.0.0.1", "-s", "1", "-e", "1024", "--no-progress")

		assert.ErrorIs(st, err, prober.ErrCancelled)
		assert.NotContains(st, out, "Scan complete.")
	})

	t.Run("rejects an invalid range", func(st *testing.T) {
		_, err := execute(props, "scan", "127.0.0.1", "-s", "10", "-e", "1", "--no-progress")

		assert.Error(st, err)
	})

	t.Run("rejects a scan without targets", func(st *testing.T) {
		_, err := execute(props, "scan", "--no-progress")

		assert.ErrorIs(st, err, core.ErrNoTargets)
	})

	t.Run("saves, lists, runs, and deletes a profile", func(st *testing.T) {
		out, err := execute(props, "profile", "save", "local", "127.0.0.1", "-s", port, "-e", port, "--timeout", "500ms")

		assert.NoError(st, err)
		assert.Contains(st, out, "saved profile local")

		out, err = execute(props, "profile", "list")

		assert.NoError(st, err)
		assert.Contains(st, out, "local")
		assert.Contains(st, out, port+"-"+port)

		out, err = execute(props, "scan", "--profile", "local", "--no-progress", "--diagnostics")

		assert.NoError(st, err)
		assert.Contains(st, out, "Port "+port+" is open")
		assert.Contains(st, out, "Scan complete.")

		out, err = execute(props, "profile", "delete", "local")

		assert.NoError(st, err)
		assert.Contains(st, out, "deleted profile local")

		_, err = execute(props, "scan", "--profile", "local", "--no-progress")

		assert.Error(st, err)
	})

	t.Run("writes logs to the log file", func(st *testing.T) {
		logFile := filepath.Join(dir, "portprobe.log")
		viper.Set("log-file", logFile)

		_, err := execute(props, "version", "--log-to-file")

		assert.NoError(st, err)

		_, err = os.Stat(logFile)

		assert.NoError(st, err)
	})
}
