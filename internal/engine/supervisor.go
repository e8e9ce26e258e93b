// Supervisor for the external radar-simulation engine subprocess
package engine

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// State reflects the supervisor's view of the engine subprocess.
type State int

const (
	NotRunning State = iota
	Starting
	Running
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	default:
		return "not running"
	}
}

// Options configure how the engine subprocess is launched and stopped.
type Options struct {
	Command      string
	Args         []string
	Dir          string
	StartTimeout time.Duration
	StopTimeout  time.Duration
}

// Supervisor launches and supervises a single engine subprocess. Stdout and
// stderr are merged and forwarded line by line through OnLog; OnExit fires
// once per started process. At most one subprocess is supervised at a time.
type Supervisor struct {
	opts   Options
	onLog  func(string)
	onExit func(error)

	mu        sync.Mutex
	state     State
	cmd       *exec.Cmd
	startedAt time.Time
	done      chan struct{}
}

// New creates a Supervisor. onLog and onExit may be nil.
func New(opts Options, onLog func(string), onExit func(error)) *Supervisor {
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = 3 * time.Second
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 2 * time.Second
	}
	return &Supervisor{opts: opts, onLog: onLog, onExit: onExit}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) log(line string) {
	if s.onLog != nil {
		s.onLog(line)
	}
}

// Start spawns the engine. A start request while a process is already
// supervised is logged and ignored.
func (s *Supervisor) Start() {
	s.mu.Lock()
	if s.state != NotRunning {
		s.mu.Unlock()
		s.log("engine already running, start ignored")
		return
	}
	s.state = Starting
	s.mu.Unlock()

	cmd := exec.Command(s.opts.Command, s.opts.Args...)
	cmd.Dir = s.opts.Dir

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		s.mu.Lock()
		s.state = NotRunning
		s.mu.Unlock()
		s.log(fmt.Sprintf("failed to start engine: %v", err))
		return
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cmd = cmd
	s.state = Running
	s.startedAt = time.Now()
	s.done = done
	s.mu.Unlock()
	s.log("engine starting...")

	go s.forwardOutput(pr)
	go func() {
		err := cmd.Wait()
		pw.Close()
		s.handleExit(err)
		close(done)
	}()
}

func (s *Supervisor) forwardOutput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			s.log(line)
		}
	}
}

func (s *Supervisor) handleExit(err error) {
	s.mu.Lock()
	early := time.Since(s.startedAt) < s.opts.StartTimeout
	s.state = NotRunning
	s.cmd = nil
	s.mu.Unlock()

	switch {
	case err != nil && early:
		s.log(fmt.Sprintf("engine exited during startup: %v", err))
	case err != nil:
		s.log(fmt.Sprintf("engine exited: %v", err))
	default:
		s.log("engine exited")
	}
	if s.onExit != nil {
		s.onExit(err)
	}
}

// Stop requests graceful termination and kills the process if it does not
// exit within the stop timeout. A stop request with no supervised process is
// logged and ignored.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if s.state == NotRunning || s.cmd == nil {
		s.mu.Unlock()
		s.log("engine already stopped, stop ignored")
		return
	}
	cmd := s.cmd
	done := s.done
	s.mu.Unlock()

	s.log("stopping engine...")
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(s.opts.StopTimeout):
		_ = cmd.Process.Kill()
		<-done
	}
}
