package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/robgonnella/portprobe/internal/core"
	"github.com/robgonnella/portprobe/internal/event"
	"github.com/robgonnella/portprobe/internal/prober"
	"github.com/robgonnella/portprobe/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// creates and returns the "scan" command
func scan(props *CommandProps) *cobra.Command {
	flags := &jobFlags{}
	var profileName string
	var noProgress bool
	var diagnostics bool

	cmd := &cobra.Command{
		Use:   "scan [targets...]",
		Short: "Scan targets for open tcp ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := props.Core.DefaultJob()

			if profileName != "" {
				p, err := props.Core.LoadProfile(profileName)

				if err != nil {
					return fmt.Errorf("failed to load profile %s: %w", profileName, err)
				}

				base = core.JobFromProfile(p)
			}

			job, err := flags.merge(cmd, base, args)

			if err != nil {
				return err
			}

			hosts, err := util.ExpandTargets(job.Targets)

			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			events := props.Core.Events()

			stopProgress := func() {}

			if !noProgress {
				total := len(hosts) * (int(job.EndPort) - int(job.StartPort) + 1)
				stopProgress = startProgress(events, total)
			}

			kinds := map[prober.ProbeError]int{}
			stopDiagnostics := func() {}

			if diagnostics {
				stopDiagnostics = listen(events, event.DiagnosticEventType, func(evt event.Event) {
					if d, ok := evt.Payload.(prober.Diagnostic); ok {
						kinds[d.Kind]++
					}
				})
			}

			reports, err := props.Core.Scan(ctx, job)

			stopProgress()
			stopDiagnostics()

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			renderReports(out, reports)

			if diagnostics {
				renderDiagnostics(out, kinds)
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "run a saved profile")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "print a summary of why ports were not open")

	return cmd
}

// startProgress renders a progress bar on stderr driven by probe events
func startProgress(events event.Manager, total int) func() {
	if total <= 0 {
		return func() {}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("[cyan]probing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	stop := listen(events, event.ProbeEventType, func(evt event.Event) {
		bar.Add(1)
	})

	return func() {
		stop()
		bar.Finish()
	}
}

func renderReports(out io.Writer, reports []*prober.Report) {
	header := color.New(color.FgCyan)
	open := color.New(color.FgGreen)

	for _, r := range reports {
		header.Fprintf(out, "Scanning %s from port %d to %d...\n", r.Target, r.StartPort, r.EndPort)

		for _, port := range r.Ports() {
			open.Fprintf(out, "Port %d is open\n", port)
		}
	}

	fmt.Fprintln(out, "Scan complete.")
}

func renderDiagnostics(out io.Writer, kinds map[prober.ProbeError]int) {
	keys := make([]string, 0, len(kinds))

	for k := range kinds {
		keys = append(keys, string(k))
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(out, "%s: %d\n", k, kinds[prober.ProbeError(k)])
	}
}
