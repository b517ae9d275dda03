package config

import (
	"log/slog"
	"maps"
	"sync"
	"time"
)

// saveDelay is how long the saver waits for further changes before
// writing. UI toggles tend to arrive in bursts.
const saveDelay = 500 * time.Millisecond

// AsyncSaver coalesces config writes onto a background goroutine. The
// update loop hands it a snapshot and moves on; rapid changes collapse
// into one write after a quiet period. Close flushes whatever is still
// pending.
type AsyncSaver struct {
	requests chan *Config
	done     chan struct{}
	stopped  chan struct{}
	closed   sync.Once
	logger   *slog.Logger
	delay    time.Duration
}

// NewAsyncSaver starts the saver goroutine. A nil logger falls back to
// slog.Default.
func NewAsyncSaver(logger *slog.Logger) *AsyncSaver {
	return newAsyncSaver(logger, saveDelay)
}

func newAsyncSaver(logger *slog.Logger, delay time.Duration) *AsyncSaver {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncSaver{
		requests: make(chan *Config, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		logger:   logger,
		delay:    delay,
	}
	go s.run()
	return s
}

// Save queues cfg for writing, replacing any not-yet-written snapshot.
// The config is copied here so the caller may keep mutating its own.
func (s *AsyncSaver) Save(cfg *Config) {
	select {
	case <-s.done:
		return
	default:
	}

	snapshot := cloneConfig(cfg)
	select {
	case <-s.requests:
	default:
	}
	s.requests <- snapshot
}

// Close flushes any pending write and stops the goroutine, returning
// once the flush has hit disk. Safe to call more than once.
func (s *AsyncSaver) Close() {
	s.closed.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *AsyncSaver) run() {
	defer close(s.stopped)

	var pending *Config
	timer := time.NewTimer(s.delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case cfg := <-s.requests:
			pending = cfg
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.delay)
		case <-timer.C:
			if pending != nil {
				s.write(pending)
				pending = nil
			}
		case <-s.done:
			// A snapshot queued right before Close may still be in the
			// channel.
			select {
			case cfg := <-s.requests:
				pending = cfg
			default:
			}
			if pending != nil {
				s.write(pending)
			}
			return
		}
	}
}

func (s *AsyncSaver) write(cfg *Config) {
	if err := Save(cfg); err != nil {
		s.logger.Error("config: async save failed", "error", err)
	}
}

// cloneConfig copies cfg deeply enough that the saver goroutine never
// reads a map the update loop is still writing.
func cloneConfig(cfg *Config) *Config {
	c := *cfg
	c.Keymap.Overrides = maps.Clone(cfg.Keymap.Overrides)
	c.UI.Theme.Overrides = maps.Clone(cfg.UI.Theme.Overrides)
	c.Features.Flags = maps.Clone(cfg.Features.Flags)
	return &c
}
