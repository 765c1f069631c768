package core

import (
	"context"
	"errors"
	"time"

	"github.com/imdario/mergo"
	"github.com/robgonnella/portprobe/internal/config"
	"github.com/robgonnella/portprobe/internal/event"
	"github.com/robgonnella/portprobe/internal/logger"
	"github.com/robgonnella/portprobe/internal/prober"
	"github.com/robgonnella/portprobe/internal/util"
)

// ErrNoTargets returned when a job has no targets to scan
var ErrNoTargets = errors.New("no targets to scan")

// Job represents a scan of one port range across one or more targets.
// Targets may be hostnames, ips, or cidr blocks.
type Job struct {
	Targets   []string
	StartPort uint16
	EndPort   uint16
	Timeout   time.Duration
}

// ProbeResult is the payload of ProbeEventType events
type ProbeResult struct {
	Target  string
	Outcome prober.Outcome
}

// JobFromProfile returns the Job described by a saved profile
func JobFromProfile(p *config.Profile) Job {
	return Job{
		Targets:   p.Targets,
		StartPort: p.StartPort,
		EndPort:   p.EndPort,
		Timeout:   p.Timeout,
	}
}

// Core represents our core data structure
type Core struct {
	conf     config.Config
	profiles config.Service
	scanner  prober.Scanner
	events   event.Manager
	log      logger.Logger
}

// New returns new core module for given configuration
func New(
	conf config.Config,
	profiles config.Service,
	scanner prober.Scanner,
	events event.Manager,
) *Core {
	return &Core{
		conf:     conf,
		profiles: profiles,
		scanner:  scanner,
		events:   events,
		log:      logger.New(),
	}
}

// Conf returns the loaded configuration
func (c *Core) Conf() config.Config {
	return c.conf
}

// Events returns the event manager scan events are published on
func (c *Core) Events() event.Manager {
	return c.events
}

// DefaultJob returns a Job populated from the loaded configuration
func (c *Core) DefaultJob() Job {
	return Job{
		Targets:   c.conf.Targets,
		StartPort: c.conf.Scan.StartPort,
		EndPort:   c.conf.Scan.EndPort,
		Timeout:   c.conf.Scan.Timeout,
	}
}

// Scan expands the job targets and scans each resulting host in turn.
// Invalid jobs are rejected before any host is probed. Reports are returned
// in target order and only once every target has been scanned.
func (c *Core) Scan(ctx context.Context, job Job) ([]*prober.Report, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}

	hosts, err := util.ExpandTargets(job.Targets)

	if err != nil {
		return nil, err
	}

	if len(hosts) == 0 {
		return nil, ErrNoTargets
	}

	reports := []*prober.Report{}

	for _, host := range hosts {
		report, err := c.scanner.Scan(ctx, prober.Request{
			Target:    host,
			StartPort: job.StartPort,
			EndPort:   job.EndPort,
			Timeout:   job.Timeout,
		})

		if err != nil {
			c.log.Warn().Err(err).Str("target", host).Msg("scan aborted")
			return nil, err
		}

		c.log.Info().
			Str("target", host).
			Int("attempted", report.Attempted).
			Int("open", len(report.Open)).
			Dur("elapsed", report.Elapsed).
			Msg("target scanned")

		c.events.Send(event.Event{
			Type:    event.ReportEventType,
			Payload: report,
		})

		reports = append(reports, report)
	}

	return reports, nil
}

// GetProfiles returns all saved profiles
func (c *Core) GetProfiles() ([]*config.Profile, error) {
	return c.profiles.GetAll()
}

// SaveProfile validates and saves a profile, creating or replacing it by name
func (c *Core) SaveProfile(p *config.Profile) (*config.Profile, error) {
	if err := validateJob(JobFromProfile(p)); err != nil {
		return nil, err
	}

	return c.profiles.Save(p)
}

// LoadProfile returns a saved profile and marks it as last loaded
func (c *Core) LoadProfile(name string) (*config.Profile, error) {
	return c.profiles.Load(name)
}

// DeleteProfile deletes a saved profile
func (c *Core) DeleteProfile(name string) error {
	return c.profiles.Delete(name)
}

func validateJob(job Job) error {
	if len(job.Targets) == 0 {
		return ErrNoTargets
	}

	return prober.Validate(prober.Request{
		StartPort: job.StartPort,
		EndPort:   job.EndPort,
		Timeout:   job.Timeout,
	})
}

// MergeJob overlays the non-zero fields of overrides onto base
func MergeJob(base Job, overrides Job) (Job, error) {
	if err := mergo.Merge(&base, overrides, mergo.WithOverride); err != nil {
		return Job{}, err
	}

	return base, nil
}
