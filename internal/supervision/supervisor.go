// Package supervision periodically checks that each configured RIC answers
// and records what it reports: protocol version, policy types and instances.
package supervision

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/metrics"
	"github.com/marcus-qen/a1bridge/internal/shared/fanout"
	"github.com/marcus-qen/a1bridge/internal/telemetry"
)

const (
	defaultSchedule = "@every 1m"
	defaultTimeout  = 30 * time.Second
)

// Trigger labels for sweeps.
const (
	TriggerScheduled = "scheduled"
	TriggerStartup   = "startup"
	TriggerManual    = "manual"
)

// Target is one supervised RIC.
type Target struct {
	ID     string
	Client a1.Client
}

// Options tune the supervisor. Zero values take defaults.
type Options struct {
	Schedule string
	Timeout  time.Duration
	// Parallel caps how many RICs are checked at once; <1 checks all at once.
	Parallel int
}

// RicStatus is the outcome of the latest check of one RIC.
type RicStatus struct {
	RicID       string          `json:"ric_id"`
	Available   bool            `json:"available"`
	Protocol    a1.ProtocolType `json:"protocol,omitempty"`
	PolicyTypes int             `json:"policy_types"`
	Policies    int             `json:"policies"`
	CheckedAt   time.Time       `json:"checked_at"`
	Error       string          `json:"error,omitempty"`
}

// Supervisor runs RIC checks on a cron schedule.
type Supervisor struct {
	targets  []Target
	schedule cron.Schedule
	timeout  time.Duration
	parallel int
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	statuses map[string]RicStatus
	cron     *cron.Cron
	wg       sync.WaitGroup
}

// New validates the options and returns a stopped supervisor.
func New(targets []Target, opts Options, logger *zap.Logger) (*Supervisor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Schedule == "" {
		opts.Schedule = defaultSchedule
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Parallel < 1 {
		opts.Parallel = len(targets)
	}

	schedule, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse supervision schedule %q: %w", opts.Schedule, err)
	}

	return &Supervisor{
		targets:  targets,
		schedule: schedule,
		timeout:  opts.Timeout,
		parallel: opts.Parallel,
		logger:   logger.Named("supervision"),
		now:      time.Now,
		statuses: make(map[string]RicStatus, len(targets)),
	}, nil
}

// Start runs one sweep immediately and then follows the schedule until ctx
// is done or Stop is called. It is safe to call Start multiple times.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		s.RunOnce(ctx, TriggerScheduled)
	}))
	s.cron = c
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx, TriggerStartup)
	}()
	c.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("supervision started", zap.Int("rics", len(s.targets)))
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	<-c.Stop().Done()
	s.wg.Wait()
	s.logger.Info("supervision stopped")
}

// RunOnce checks every RIC and returns the new statuses sorted by RIC id.
func (s *Supervisor) RunOnce(ctx context.Context, trigger string) []RicStatus {
	ctx, span := telemetry.StartSupervisionSpan(ctx, trigger, len(s.targets))

	results := fanout.Stream(ctx, s.parallel, s.targets, func(ctx context.Context, t Target) ([]RicStatus, error) {
		return []RicStatus{s.check(ctx, t)}, nil
	})
	statuses, _ := fanout.Collect(results)

	failed := 0
	s.mu.Lock()
	for _, st := range statuses {
		s.statuses[st.RicID] = st
		if !st.Available {
			failed++
		}
	}
	s.mu.Unlock()

	status := "ok"
	if failed > 0 {
		status = "degraded"
	}
	metrics.RecordSupervisionRun(status, s.now())
	telemetry.EndSupervisionSpan(span, failed)

	s.logger.Debug("supervision sweep finished",
		zap.String("trigger", trigger),
		zap.Int("rics", len(statuses)),
		zap.Int("failed", failed),
	)

	sortStatuses(statuses)
	return statuses
}

func (s *Supervisor) check(ctx context.Context, t Target) RicStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st := RicStatus{RicID: t.ID}
	err := func() error {
		version, err := t.Client.ProtocolVersion(ctx)
		if err != nil {
			return fmt.Errorf("protocol version: %w", err)
		}
		st.Protocol = version

		types, err := t.Client.PolicyTypeIDs(ctx)
		if err != nil {
			return fmt.Errorf("policy types: %w", err)
		}
		st.PolicyTypes = len(types)

		policies, err := t.Client.PolicyIDs(ctx)
		if err != nil {
			return fmt.Errorf("policies: %w", err)
		}
		st.Policies = len(policies)
		return nil
	}()
	st.CheckedAt = s.now()

	if err != nil {
		st.Error = err.Error()
		level := s.logger.Warn
		if errors.Is(err, context.Canceled) {
			level = s.logger.Debug
		}
		level("ric check failed", zap.String("ric", t.ID), zap.Error(err))
	} else {
		st.Available = true
	}
	metrics.RecordRicCheck(t.ID, st.Available, st.PolicyTypes, st.Policies)
	return st
}

// Statuses returns the latest status of every checked RIC, sorted by id.
func (s *Supervisor) Statuses() []RicStatus {
	s.mu.RLock()
	out := make([]RicStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	s.mu.RUnlock()

	sortStatuses(out)
	return out
}

// Healthy reports whether every RIC checked so far was available at its last
// check. Before the first sweep completes there is nothing to fail.
func (s *Supervisor) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.statuses {
		if !st.Available {
			return false
		}
	}
	return true
}

func sortStatuses(statuses []RicStatus) {
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].RicID < statuses[j].RicID })
}
