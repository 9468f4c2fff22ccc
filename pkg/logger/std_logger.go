package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// config holds the tunables read from the `Logger.*` section of the
// simulation config file: the display name, the environment tag (read
// but not printed), whether to force a "local" instance id, the minimum level
// to display (currently informational only; StdLogger does not drop
// messages below it, it just carries the value through) and the size
// of the internal message buffer.
type config struct {
	appName     string
	environment string
	forceLocal  bool
	level       string
	buffer      int
}

func loadConfig() config {
	cfg := config{
		appName:     "orreryd",
		environment: "development",
		forceLocal:  false,
		level:       "info",
		buffer:      500,
	}

	if viper.IsSet("Logger.Name") {
		cfg.appName = viper.GetString("Logger.Name")
	}
	if viper.IsSet("Logger.Environment") {
		cfg.environment = viper.GetString("Logger.Environment")
	}
	if viper.IsSet("Logger.ForceLocal") {
		cfg.forceLocal = viper.GetBool("Logger.ForceLocal")
	}
	if viper.IsSet("Logger.Level") {
		cfg.level = viper.GetString("Logger.Level")
	}
	if viper.IsSet("Logger.Buffer") {
		cfg.buffer = viper.GetInt("Logger.Buffer")
	}

	return cfg
}

// trace is one queued log line. write renders every trace the same
// way; isEvent is carried but never read, and Trace leaves it false.
type trace struct {
	level   Severity
	name    string
	content string
	isEvent bool
}

// StdLogger writes colorized lines to stdout from a background
// goroutine, so callers of Trace never block on terminal I/O. Messages
// wait on the queue channel; Release drains whatever is left before the
// process exits.
type StdLogger struct {
	cfg        config
	instanceID string
	publicIP   string

	queue  chan trace
	stop   chan bool
	closed bool
	mu     sync.Mutex
	done   sync.WaitGroup
}

// NewStdLogger builds a logger tagged with the given instance id and
// public IP (both shown on every line) and starts its drain loop.
// instanceID falls back to "local" when empty or when the config
// forces it; publicIP falls back to "localhost".
func NewStdLogger(instanceID string, publicIP string) Logger {
	cfg := loadConfig()

	if instanceID == "" || cfg.forceLocal {
		instanceID = "local"
	}
	if publicIP == "" {
		publicIP = "localhost"
	}

	log := &StdLogger{
		cfg:        cfg,
		instanceID: instanceID,
		publicIP:   publicIP,
		queue:      make(chan trace, cfg.buffer),
		stop:       make(chan bool),
	}

	log.done.Add(1)
	go log.drain()

	return log
}

// Release stops the drain loop after flushing whatever remains queued.
func (l *StdLogger) Release() {
	l.stop <- false

	l.mu.Lock()
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	l.done.Wait()
}

// Trace enqueues a message for the background drain loop. It is a
// no-op once Release has been called.
func (l *StdLogger) Trace(level Severity, module string, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.queue <- trace{level: level, name: module, content: message}
}

func (l *StdLogger) drain() {
	defer l.done.Done()

	running := true
	for running {
		select {
		case running = <-l.stop:
		case t := <-l.queue:
			l.write(t)
		}
	}

	for t := range l.queue {
		l.write(t)
	}
}

func (l *StdLogger) write(t trace) {
	line := FormatWithBrackets(l.cfg.appName, Magenta)
	line += " " + FormatWithBrackets(l.instanceID, Magenta)
	line += " " + FormatWithBrackets(l.publicIP, Magenta)
	line += " " + FormatWithNoBrackets(time.Now().Format("2006-01-02 15:04:05"), Magenta)
	line += " " + t.level.String()
	if t.name != "" {
		line += " " + FormatWithBrackets(t.name, Cyan)
	}
	line += " " + t.content

	fmt.Println(line)
}
