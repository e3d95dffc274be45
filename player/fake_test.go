package player

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"
)

// fakeMPV serves a minimal subset of mpv's JSON-IPC protocol.
type fakeMPV struct {
	socket   string
	listener net.Listener

	mu       sync.Mutex
	conns    []*fakeConn
	commands [][]any
	props    map[string]any
}

type fakeConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func (c *fakeConn) write(v any) {
	payload, _ := json.Marshal(v)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.conn.Write(append(payload, '\n'))
}

func newFakeMPV(t *testing.T) *fakeMPV {
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	l, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	f := &fakeMPV{
		socket:   socket,
		listener: l,
		props: map[string]any{
			"time-pos": 12.5,
			"duration": 100.0,
		},
	}
	go f.serve()
	t.Cleanup(func() { _ = l.Close() })
	return f
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		c := &fakeConn{conn: conn}
		f.mu.Lock()
		f.conns = append(f.conns, c)
		f.mu.Unlock()
		go f.handle(c)
	}
}

func (f *fakeMPV) handle(c *fakeConn) {
	reader := bufio.NewReader(c.conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var cmd ipcCommand
		if err := json.Unmarshal(line, &cmd); err != nil || len(cmd.Command) == 0 {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		f.mu.Unlock()

		resp := map[string]any{"request_id": cmd.RequestID, "error": "success"}
		name, _ := cmd.Command[0].(string)
		if name == "get_property" {
			f.mu.Lock()
			value, ok := f.props[cmd.Command[1].(string)]
			f.mu.Unlock()
			if ok {
				resp["data"] = value
			} else {
				resp["error"] = "property unavailable"
			}
		}
		c.write(resp)

		switch name {
		case "loadfile":
			f.broadcast(map[string]any{"event": "file-loaded"})
		case "seek":
			f.broadcast(map[string]any{"event": "playback-restart"})
		}
	}
}

func (f *fakeMPV) broadcast(v any) {
	f.mu.Lock()
	conns := append([]*fakeConn(nil), f.conns...)
	f.mu.Unlock()

	for _, c := range conns {
		c.write(v)
	}
}

func (f *fakeMPV) sent(name string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [][]any
	for _, c := range f.commands {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}
