package plugin

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultQueueSize is how many events may wait for plugin workers.
const DefaultQueueSize = 32

type job struct {
	plugin *Plugin
	req    Request
}

// Dispatcher delivers game events to subscribed plugins on background
// workers so slow plugins never hold up a frame.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	log      zerolog.Logger

	queue  chan job
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts workers goroutines that run plugins from a queue of
// queueSize events. They stop when ctx is cancelled or Close is called.
func NewDispatcher(ctx context.Context, manager *Manager, executor *Executor, log zerolog.Logger, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	d := &Dispatcher{
		manager:  manager,
		executor: executor,
		log:      log,
		queue:    make(chan job, queueSize),
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	return d
}

// Dispatch queues req for every plugin subscribed to req.Event. It never
// blocks; events beyond the queue capacity are dropped.
func (d *Dispatcher) Dispatch(req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	for _, p := range d.manager.Subscribers(req.Event) {
		select {
		case d.queue <- job{plugin: p, req: req}:
		default:
			d.log.Warn().Str("plugin", p.Manifest.Name).Str("event", req.Event).Msg("plugin queue full, dropping event")
		}
	}
}

// Close stops accepting events, lets queued ones finish and waits for workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-d.queue:
			if !ok {
				return
			}
			d.run(ctx, j)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, j job) {
	log := d.log.With().Str("plugin", j.plugin.Manifest.Name).Str("event", j.req.Event).Logger()

	resp, err := d.executor.Execute(ctx, j.plugin, j.req)
	if err != nil {
		log.Warn().Err(err).Msg("plugin run failed")
		return
	}
	if !resp.Success {
		log.Warn().Str("error", resp.Error).Msg("plugin reported failure")
		return
	}
	log.Debug().Msg("plugin handled event")
}
