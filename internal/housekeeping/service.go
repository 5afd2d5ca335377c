// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"time"

	"archivehub/internal/logging"
)

const (
	// DefaultCheckInterval is used when no interval is configured.
	DefaultCheckInterval = 1 * time.Hour
	// MinCheckInterval is the minimum time between checks to prevent busy-looping.
	MinCheckInterval = 1 * time.Minute
)

// Service runs backup housekeeping in the background at a fixed interval.
type Service struct {
	Deps     Dependencies
	Policy   Policy
	Interval time.Duration

	nowFn  func() time.Time
	timer  *time.Timer
	stopCh chan struct{}
	done   chan struct{}
}

// NewService creates a new housekeeping service instance.
func NewService(deps Dependencies, policy Policy, interval time.Duration) *Service {
	return &Service{
		Deps:     deps,
		Policy:   policy,
		Interval: interval,
		nowFn:    time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start kicks off the background housekeeping service.
func (s *Service) Start() {
	logging.Log.Info("Starting background housekeeping service.")
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.timer.C:
				s.runChecks()
				nextRun := s.nextInterval()
				s.timer.Reset(nextRun)
				logging.Log.Infof("Next housekeeping check scheduled in %v.", nextRun)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background housekeeping service and waits for it to exit.
func (s *Service) Stop() {
	logging.Log.Info("Stopping background housekeeping service.")
	close(s.stopCh)
	<-s.done
}

func (s *Service) nextInterval() time.Duration {
	if s.Interval == 0 {
		return DefaultCheckInterval
	}
	if s.Interval < MinCheckInterval {
		return MinCheckInterval
	}
	return s.Interval
}

func (s *Service) runChecks() {
	logging.Log.Debug("Housekeeping service: Checking backups...")
	report, err := Run(s.Deps, s.Policy, s.nowFn())
	if err != nil {
		logging.Log.Errorf("Housekeeping run failed: %v", err)
		return
	}
	logging.Log.Info(report.Message)
}
