package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vidsel-cli/vidsel/constant"
	"github.com/vidsel-cli/vidsel/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// ErrNotRunning is returned when mpv was never started or has been closed.
var ErrNotRunning = errors.New("mpv is not running")

// MPVOption configures an MPV.
type MPVOption func(*MPV)

// WithPath sets the mpv executable.
func WithPath(path string) MPVOption {
	return func(m *MPV) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSocket attaches to an mpv already serving IPC on path instead of
// spawning one.
func WithSocket(path string) MPVOption {
	return func(m *MPV) {
		if path != "" {
			m.socketPath = path
			m.attached = true
		}
	}
}

// MPV implements Player over mpv's JSON-IPC protocol. The process is
// started lazily by the first Load.
type MPV struct {
	path       string
	socketPath string
	attached   bool

	cmd    *exec.Cmd
	exited chan struct{}

	// mu serializes socket writes.
	mu        sync.Mutex
	requestID atomic.Int64

	state       sync.Mutex
	started     bool
	closed      bool
	unit        *Unit
	listeners   map[int]func(Event)
	nextID      int
	seekWaiters []chan struct{}

	events *eventListener
}

func NewMPV(opts ...MPVOption) *MPV {
	m := &MPV{
		path:      "mpv",
		exited:    make(chan struct{}),
		listeners: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MPV) logger() *logrus.Entry {
	return log.WithFields(logrus.Fields{"player": "mpv", "socket": m.socketPath})
}

func (m *MPV) start() error {
	m.state.Lock()
	defer m.state.Unlock()

	if m.closed {
		return ErrNotRunning
	}
	if m.started {
		return nil
	}

	if m.attached {
		if err := m.waitForSocket(); err != nil {
			return fmt.Errorf("mpv socket not ready: %w", err)
		}
	} else if err := m.spawn(); err != nil {
		return err
	}

	el, err := listenEvents(m.socketPath, m.dispatch)
	if err != nil {
		m.kill()
		return err
	}
	m.events = el
	m.started = true

	m.logger().Info("mpv ready")
	return nil
}

func (m *MPV) spawn() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Vidsel, randomBytes))
	}

	// Only IPC and window flags are passed so the user's mpv.conf still applies.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	}

	m.cmd = exec.Command(m.path, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		m.kill()
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

func (m *MPV) kill() {
	if m.cmd == nil || m.cmd.Process == nil {
		return
	}
	select {
	case <-m.exited:
	default:
		m.logger().Warn("killing mpv")
		_ = killProcess(m.cmd)
	}
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		if !m.attached {
			select {
			case <-m.exited:
				return fmt.Errorf("mpv exited before socket was ready")
			default:
			}
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}

		time.Sleep(socketWaitDelay)
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Load implements Player.
func (m *MPV) Load(u *Unit) error {
	if err := m.start(); err != nil {
		return err
	}

	m.state.Lock()
	m.unit = u
	m.state.Unlock()

	if _, err := m.sendCommand("set_property", "pause", true); err != nil {
		return err
	}

	if _, err := m.sendCommand("loadfile", u.Target, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", u.Target, err)
	}

	if u.Title != "" {
		if _, err := m.sendCommand("set_property", "force-media-title", u.Title); err != nil {
			m.logger().Warnf("set title: %v", err)
		}
	}

	return nil
}

func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// Stop implements Player.
func (m *MPV) Stop() error {
	m.state.Lock()
	started := m.started
	m.unit = nil
	m.state.Unlock()

	if !started {
		return nil
	}

	_, err := m.sendCommand("stop")
	return err
}

// Seek implements Player. It waits for mpv's playback-restart event.
func (m *MPV) Seek(ctx context.Context, pos time.Duration) error {
	if !m.isStarted() {
		return ErrNotRunning
	}

	done := make(chan struct{})
	m.state.Lock()
	m.seekWaiters = append(m.seekWaiters, done)
	m.state.Unlock()

	if _, err := m.sendCommand("seek", pos.Seconds(), "absolute+exact"); err != nil {
		m.dropWaiter(done)
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.dropWaiter(done)
		return ctx.Err()
	case <-m.exited:
		return ErrNotRunning
	}
}

func (m *MPV) dropWaiter(done chan struct{}) {
	m.state.Lock()
	defer m.state.Unlock()

	for i, w := range m.seekWaiters {
		if w == done {
			m.seekWaiters = append(m.seekWaiters[:i], m.seekWaiters[i+1:]...)
			return
		}
	}
}

func (m *MPV) TimePos() (time.Duration, error) {
	return m.getDurationProperty("time-pos")
}

func (m *MPV) Duration() (time.Duration, error) {
	return m.getDurationProperty("duration")
}

// Subscribe implements Player. Callbacks run on the event read loop.
func (m *MPV) Subscribe(fn func(Event)) (cancel func()) {
	m.state.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.state.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.state.Lock()
			delete(m.listeners, id)
			m.state.Unlock()
		})
	}
}

// Close quits mpv, or only disconnects when attached to an external one.
func (m *MPV) Close() error {
	m.state.Lock()
	if m.closed {
		m.state.Unlock()
		return nil
	}
	m.closed = true
	started := m.started
	events := m.events
	m.listeners = make(map[int]func(Event))
	m.state.Unlock()

	if !started {
		return nil
	}

	if events != nil {
		events.stop()
	}

	if m.attached {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) isStarted() bool {
	m.state.Lock()
	defer m.state.Unlock()

	return m.started && !m.closed
}

func (m *MPV) setProperty(name string, value any) error {
	if !m.isStarted() {
		return ErrNotRunning
	}
	_, err := m.sendCommand("set_property", name, value)
	return err
}

func (m *MPV) getDurationProperty(name string) (time.Duration, error) {
	if !m.isStarted() {
		return 0, ErrNotRunning
	}

	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return secondsToDuration(val), nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
