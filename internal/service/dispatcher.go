package service

import (
	"context"
	"sync"
	"time"

	"github.com/useinsider/go-pkg/inslogger"
)

// DispatchTask is one fire-and-forget unit of work, usually a single
// gateway call. The context carries the dispatch timeout.
type DispatchTask func(ctx context.Context)

// Dispatcher runs dispatch tasks off the request goroutine so a slow or
// unavailable gateway never blocks the triggering commerce operation. The
// queue is bounded; when it is full the task is dropped and logged rather
// than letting back-pressure reach the host application.
type Dispatcher interface {
	Start() error
	Stop() error
	IsRunning() bool
	Dispatch(task DispatchTask) bool
}

type dispatcher struct {
	logger       inslogger.Interface
	timeout      time.Duration
	tasks        chan DispatchTask
	stopChan     chan struct{}
	isRunning    bool
	runningMutex sync.Mutex
}

func NewDispatcher(logger inslogger.Interface, timeout time.Duration, queueSize int) Dispatcher {
	return &dispatcher{
		logger:   logger,
		timeout:  timeout,
		tasks:    make(chan DispatchTask, queueSize),
		stopChan: make(chan struct{}),
	}
}

func (d *dispatcher) Start() error {
	d.runningMutex.Lock()
	defer d.runningMutex.Unlock()

	if d.isRunning {
		return nil
	}

	d.isRunning = true

	go func() {
		for {
			select {
			case task := <-d.tasks:
				d.run(task)
			case <-d.stopChan:
				// Drain what was queued before the stop.
				for {
					select {
					case task := <-d.tasks:
						d.run(task)
					default:
						return
					}
				}
			}
		}
	}()

	return nil
}

func (d *dispatcher) Stop() error {
	d.runningMutex.Lock()
	defer d.runningMutex.Unlock()

	if !d.isRunning {
		return nil
	}

	d.stopChan <- struct{}{}
	d.isRunning = false
	return nil
}

func (d *dispatcher) IsRunning() bool {
	d.runningMutex.Lock()
	defer d.runningMutex.Unlock()
	return d.isRunning
}

// Dispatch queues a task without blocking. It reports false when the task
// was dropped, either because the dispatcher is not running or because the
// queue is full. A task accepted before Stop still runs during the drain.
func (d *dispatcher) Dispatch(task DispatchTask) bool {
	if !d.IsRunning() {
		d.logger.Warn("Dispatcher is not running, dropping task")
		return false
	}

	select {
	case d.tasks <- task:
		return true
	default:
		d.logger.Warn("Dispatch queue is full, dropping task")
		return false
	}
}

func (d *dispatcher) run(task DispatchTask) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	task(ctx)
}
