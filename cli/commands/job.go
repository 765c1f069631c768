package commands

import (
	"time"

	"github.com/robgonnella/portprobe/internal/core"
	"github.com/robgonnella/portprobe/internal/event"
	"github.com/spf13/cobra"
)

// jobFlags are the flags shared by commands that describe a scan job
type jobFlags struct {
	targets   []string
	startPort uint16
	endPort   uint16
	timeout   time.Duration
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.targets, "target", "t", nil, "hostname, ip, or cidr to scan (repeatable)")
	cmd.Flags().Uint16VarP(&f.startPort, "start-port", "s", 0, "first port of the range (default from config)")
	cmd.Flags().Uint16VarP(&f.endPort, "end-port", "e", 0, "last port of the range (default from config)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per port connection timeout (default from config)")
}

// overrides returns a Job holding only the values given on the command line
func (f *jobFlags) overrides(args []string) core.Job {
	targets := append([]string{}, args...)
	targets = append(targets, f.targets...)

	return core.Job{
		Targets:   targets,
		StartPort: f.startPort,
		EndPort:   f.endPort,
		Timeout:   f.timeout,
	}
}

// merge overlays the command line values onto base. Port flags that were
// set explicitly win even when zero, which a plain merge would skip.
func (f *jobFlags) merge(cmd *cobra.Command, base core.Job, args []string) (core.Job, error) {
	job, err := core.MergeJob(base, f.overrides(args))

	if err != nil {
		return core.Job{}, err
	}

	if cmd.Flags().Changed("start-port") {
		job.StartPort = f.startPort
	}

	if cmd.Flags().Changed("end-port") {
		job.EndPort = f.endPort
	}

	if cmd.Flags().Changed("timeout") {
		job.Timeout = f.timeout
	}

	return job, nil
}

// listen calls fn for every event of eventType until the returned function
// is called. Events sent before that call are all handled before it returns.
// fn is always called from the same goroutine.
func listen(events event.Manager, eventType event.EventType, fn func(evt event.Event)) func() {
	ch := make(chan event.Event)
	done := make(chan struct{})
	finished := make(chan struct{})

	id := events.RegisterListener(eventType, ch)

	go func() {
		defer close(finished)

		for {
			select {
			case evt := <-ch:
				fn(evt)
			case <-done:
				return
			}
		}
	}()

	return func() {
		events.RemoveListener(id)
		close(done)
		<-finished
	}
}
