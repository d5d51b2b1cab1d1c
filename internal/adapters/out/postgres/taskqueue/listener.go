package taskqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const listenerPing = 90 * time.Second

// Listener turns NOTIFY messages on NotifyChannel into dispatcher wake-ups. It keeps its
// own connection and reconnects on its own; the cron tick covers anything missed meanwhile.
type Listener struct {
	listener *pq.Listener
	logger   *slog.Logger
}

func NewListener(dsn string, logger *slog.Logger) (*Listener, error) {
	logger = logger.With("component", "TaskQueueListener")

	l := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("task listener connection event", "event", int(ev), "error", err)
		}
	})
	if err := l.Listen(NotifyChannel); err != nil {
		_ = l.Close()
		return nil, err
	}

	return &Listener{listener: l, logger: logger}, nil
}

// Run calls wake for every notification until ctx is done. A nil notification means the
// connection was re-established and is reported as a wake-up too.
func (l *Listener) Run(ctx context.Context, wake func()) {
	ticker := time.NewTicker(listenerPing)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.listener.Notify:
			wake()
		case <-ticker.C:
			if err := l.listener.Ping(); err != nil {
				l.logger.WarnContext(ctx, "task listener ping failed", "error", err)
			}
		}
	}
}

func (l *Listener) Close() error {
	return l.listener.Close()
}
