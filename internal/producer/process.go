package producer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/quickpick/internal/picker/stream"
)

// LineParser converts one stdout line into an item.
// Returning false skips the line.
type LineParser func(line string) (stream.Item, bool)

// Process runs an external command and streams its stdout line by line.
//
// Cancellation is advisory-then-forceful: the process group receives
// SIGTERM on context cancel, then SIGKILL after the grace period.
type Process struct {
	// Argv is the command and its arguments.
	Argv []string

	// Dir is the working directory (search root).
	Dir string

	// Env holds extra environment variables, added to os.Environ().
	Env map[string]string

	// Parse converts stdout lines to items. Nil emits raw lines.
	Parse LineParser

	// GracePeriod is how long to wait between SIGTERM and SIGKILL.
	// Zero means DefaultGracePeriod.
	GracePeriod time.Duration

	// BufferSize is the scanner buffer size. Zero means 64KB.
	BufferSize int
}

// DefaultGracePeriod is the interrupt-to-kill window for canceled processes.
const DefaultGracePeriod = 2 * time.Second

// stderrTailLimit bounds how much stderr is retained for error reporting.
const stderrTailLimit = 4 * 1024

// Produce implements Producer.
func (p *Process) Produce(ctx context.Context, emit Emit) error {
	if len(p.Argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(p.Argv[0], p.Argv[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = buildEnv(p.Env)
	// Own process group so cancellation reaches child processes too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	var stderr tailBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Argv[0], err)
	}

	// Watch for cancellation while the process runs.
	procDone := make(chan struct{})
	var killWg sync.WaitGroup
	killWg.Add(1)
	go func() {
		defer killWg.Done()
		select {
		case <-procDone:
		case <-ctx.Done():
			p.terminate(cmd)
		}
	}()

	bufSize := p.BufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, bufSize), bufSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if p.Parse != nil {
			it, ok := p.Parse(line)
			if !ok {
				continue
			}
			emit(it)
		} else {
			emit(stream.Item{Text: line})
		}
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	close(procDone)
	killWg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		detail := strings.TrimSpace(stderr.String())
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			if detail != "" {
				return fmt.Errorf("%s exited with code %d: %s", p.Argv[0], exitErr.ExitCode(), detail)
			}
			return fmt.Errorf("%s exited with code %d", p.Argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("%s: %w", p.Argv[0], waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", p.Argv[0], scanErr)
	}
	return nil
}

// terminate interrupts the process group, escalating to SIGKILL after
// the grace period.
func (p *Process) terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pgid := -cmd.Process.Pid

	_ = syscall.Kill(pgid, syscall.SIGTERM)

	grace := p.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()

	// Poll for exit during the grace window, then force-kill.
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-timer.C:
			_ = syscall.Kill(pgid, syscall.SIGKILL)
			return
		case <-tick.C:
			// Signal 0 probes for existence.
			if err := syscall.Kill(pgid, 0); err != nil {
				return
			}
		}
	}
}

// buildEnv merges extra variables over the inherited environment.
func buildEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // nil lets exec use os.Environ()
	}

	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// tailBuffer retains the last stderrTailLimit bytes written.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if len(t.buf) > stderrTailLimit {
		t.buf = t.buf[len(t.buf)-stderrTailLimit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
