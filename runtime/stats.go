package runtime

import (
	"context"
	"log/slog"
	"os"
	"time"

	"unimarket/contract"

	"github.com/shirou/gopsutil/process"
)

// StatsWorker periodically logs process-level resource usage together with
// the registry occupancy. It is best-effort: a failed probe is logged at
// debug level and retried on the next tick.
type StatsWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, registry: registry, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping stats worker")
			return nil
		case <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				w.log.Debug("Error while probing CPU usage", "err", err)
				continue
			}
			mem, err := proc.MemoryInfo()
			if err != nil {
				w.log.Debug("Error while probing memory usage", "err", err)
				continue
			}
			w.log.Info("service stats",
				"connections", w.registry.Size(),
				"cpu_percent", cpu,
				"rss_mb", mem.RSS/1024/1024,
			)
		}
	}
}
