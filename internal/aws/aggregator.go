package aws

import (
	"context"
	"fmt"
	"time"

	"cloudpwn/internal/logging"
	"cloudpwn/internal/worker"
)

// Aggregator runs a service subset across an ordered region list
type Aggregator struct {
	dispatcher *Dispatcher
	regions    []string
	services   []Service
	maxWorkers int
}

// NewAggregator resolves the configured service names against the
// dispatcher's registry. Unknown names are an error.
func NewAggregator(d *Dispatcher, regions []string, serviceNames []string, maxWorkers int) (*Aggregator, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("at least one region is required")
	}

	services := make([]Service, 0, len(serviceNames))
	seen := make(map[Service]bool)
	for _, name := range serviceNames {
		s, ok := d.Registry().Lookup(name)
		if !ok {
			return nil, &UnsupportedServiceError{
				Name:      name,
				Supported: ServiceNames(d.Registry().Services()),
			}
		}
		if !seen[s] {
			seen[s] = true
			services = append(services, s)
		}
	}

	return &Aggregator{
		dispatcher: d,
		regions:    append([]string(nil), regions...),
		services:   services,
		maxWorkers: maxWorkers,
	}, nil
}

// Regions returns the configured region order
func (a *Aggregator) Regions() []string {
	return append([]string(nil), a.regions...)
}

// Services returns the configured service order
func (a *Aggregator) Services() []Service {
	return append([]Service(nil), a.services...)
}

type scanTask struct {
	service Service
	scope   Scope
}

// plan lists the (region, service) pairs to run. Global services run once,
// in the first region.
func (a *Aggregator) plan(profile string) []scanTask {
	var tasks []scanTask
	for i, region := range a.regions {
		for _, s := range a.services {
			if s.Global() && i > 0 {
				continue
			}
			tasks = append(tasks, scanTask{service: s, scope: Scope{Profile: profile, Region: region}})
		}
	}
	return tasks
}

// Run enumerates every configured service in every configured region.
// Reports come back in region order, then service order, then routine
// order, regardless of how tasks were scheduled. On cancellation the
// reports of completed tasks are returned with ctx.Err().
func (a *Aggregator) Run(ctx context.Context, profile string) ([]Report, error) {
	start := time.Now()
	plan := a.plan(profile)
	logging.EnumerationStart(profile, ServiceNames(a.services), a.regions)

	slots := make([][]Report, len(plan))
	tasks := make([]worker.Task, len(plan))
	for i, t := range plan {
		idx, t := i, t
		tasks[i] = func(ctx context.Context) error {
			reports, err := a.dispatcher.Dispatch(ctx, t.service, t.scope)
			slots[idx] = reports
			return err
		}
	}

	pool := worker.NewPool(a.maxWorkers)
	pool.Start()
	err := pool.ExecuteTasks(ctx, tasks)
	pool.Stop()

	var reports []Report
	failures := 0
	for _, slot := range slots {
		for _, r := range slot {
			if r.Result.Kind == ResultFailed {
				failures++
			}
			reports = append(reports, r)
		}
	}

	metrics := pool.GetMetrics()
	logging.Debug("Worker pool finished", map[string]interface{}{
		"tasks":            metrics.TotalTasks,
		"skipped":          metrics.SkippedTasks,
		"peak_workers":     metrics.PeakWorkers,
		"avg_execution_ms": metrics.AverageExecutionMs,
	})
	logging.ScanComplete(len(reports), failures, time.Since(start))

	return reports, err
}
