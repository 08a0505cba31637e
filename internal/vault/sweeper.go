package vault

import (
	"context"
	"time"

	"vanish.share/internal/logger"
)

// Sweeper periodically drains the timer registry and delivers due phase
// transitions through each identifier's actor. It is the push half of the
// wakeup design; the pull half is the due-timer check every operation runs
// on access, so a missed or late sweep is never load-bearing.
type Sweeper struct {
	vault  *Vault
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(v *Vault, interval time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Sweeper{
		vault:  v,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx, interval)
	return s
}

func (s *Sweeper) run(ctx context.Context, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	due, err := s.vault.timers.Due(ctx, s.vault.now())
	if err != nil {
		logger.Errorf("sweep: querying due timers: %v", err)
		return
	}

	for _, entry := range due {
		if ctx.Err() != nil {
			return
		}
		if err := s.vault.deliver(ctx, entry.ID); err != nil {
			logger.Errorf("sweep: delivering phase %d to %s: %v", entry.Phase, entry.ID, err)
		}
	}
}

// Close stops the sweep loop and waits for it to exit.
func (s *Sweeper) Close() error {
	s.cancel()
	<-s.done
	return nil
}
