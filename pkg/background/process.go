package background

import (
	"fmt"
	"sync"
	"time"

	"orrery/pkg/logger"
)

// OperationFunc is the work a Process repeats on each tick. The bool
// return reports success; when false and the process was built with
// WithRetry, the same call is retried after retryInterval instead of
// waiting for the next regular tick.
type OperationFunc func() (bool, error)

// ErrAlreadyRunning is returned by Start when the process is already
// looping.
var ErrAlreadyRunning = fmt.Errorf("process is already running")

// ErrInvalidOperation is returned by Start when no operation was
// attached via WithOperation.
var ErrInvalidOperation = fmt.Errorf("no operation attached to process")

// Process runs an OperationFunc on a fixed interval in its own
// goroutine, until Stop is called. module is used only to tag log
// lines, so multiple processes sharing a logger stay distinguishable.
type Process struct {
	interval      time.Duration
	retryInterval time.Duration
	operation     OperationFunc
	retry         bool
	log           logger.Logger
	module        string

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    sync.WaitGroup
}

// NewProcess returns a Process that, once started, ticks every
// interval.
func NewProcess(interval time.Duration, log logger.Logger) *Process {
	return &Process{
		interval:      interval,
		retryInterval: time.Second,
		log:           log,
		stop:          make(chan struct{}),
	}
}

// WithModule tags this process's log lines with module and returns it
// for chaining.
func (p *Process) WithModule(module string) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.module = module
	return p
}

// WithRetry makes the process retry a failed operation on
// retryInterval instead of waiting for the next regular tick.
func (p *Process) WithRetry() *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retry = true
	return p
}

// WithRetryInterval overrides the default one-second wait between
// retries of a failing operation.
func (p *Process) WithRetryInterval(interval time.Duration) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retryInterval = interval
	return p
}

// WithOperation attaches the function this process repeats.
func (p *Process) WithOperation(operation OperationFunc) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.operation = operation
	return p
}

// Start launches the process loop in its own goroutine. It is an
// error to call Start twice without an intervening Stop, or before an
// operation has been attached.
func (p *Process) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.operation == nil {
		return ErrInvalidOperation
	}

	p.running = true
	p.stop = make(chan struct{})
	p.done.Add(1)

	go p.loop()

	return nil
}

// Stop signals the loop to exit and blocks until it has. A no-op if
// the process isn't running.
func (p *Process) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stop)
	p.mu.Unlock()

	p.done.Wait()
}

// loop ticks the process's operation every interval until stop is
// closed, recovering from a panic in the operation rather than taking
// down the whole process.
func (p *Process) loop() {
	defer func() {
		if err := recover(); err != nil {
			p.log.Trace(logger.Critical, p.module, fmt.Sprintf("recovered from panic in process (err: %v)", err))
		}

		p.mu.Lock()
		p.running = false
		p.mu.Unlock()

		p.done.Done()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if err := p.execute(); err != nil {
				p.log.Trace(logger.Critical, p.module, fmt.Sprintf("process execution failed (err: %v)", err))
			}
		}
	}
}

// execute runs the operation once, retrying on retryInterval as long
// as it reports failure and the process was built WithRetry.
func (p *Process) execute() error {
	for {
		p.log.Trace(logger.Verbose, p.module, "executing process")

		success, err := p.operation()
		if err != nil {
			p.log.Trace(logger.Error, p.module, fmt.Sprintf("process operation failed (err: %v)", err))
		}

		if success || !p.retry {
			return err
		}

		p.mu.Lock()
		wait := p.retryInterval
		p.mu.Unlock()

		p.log.Trace(logger.Verbose, p.module, fmt.Sprintf("retrying failed process in %v", wait))
		time.Sleep(wait)
	}
}
