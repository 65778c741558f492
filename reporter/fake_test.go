package reporter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/ab180/dbfarmer/coordinator"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errUnreachable = errors.New("could not connect to server: Connection refused")

// fakeDialer fails the first `failures` dials, then returns session.
type fakeDialer struct {
	failures int
	dials    int
	dialed   []coordinator.Endpoint
	session  *fakeSession
	panics   bool
}

func (d *fakeDialer) Dial(_ context.Context, ep coordinator.Endpoint) (coordinator.Session, error) {
	if d.panics {
		panic("dialer exploded")
	}
	d.dials++
	d.dialed = append(d.dialed, ep)
	if d.dials <= d.failures {
		return nil, errUnreachable
	}
	return d.session, nil
}

type query struct {
	SQL  string
	Args []interface{}
}

// fakeSession is a coordinator holding configuration rows keyed by content id.
type fakeSession struct {
	mu        sync.Mutex
	rows      map[int][]coordinator.Row
	responses [][]coordinator.Row
	queryErr  error
	closeErr  error
	queries   []query
	closed    int
}

func newFakeSession() *fakeSession {
	return &fakeSession{rows: make(map[int][]coordinator.Row)}
}

func (s *fakeSession) withRows(content, n int) *fakeSession {
	for i := 0; i < n; i++ {
		s.rows[content] = append(s.rows[content], coordinator.Row{
			"content":  content,
			"hostname": "",
			"address":  "",
		})
	}
	return s
}

func (s *fakeSession) Query(_ context.Context, sql string, args ...interface{}) ([]coordinator.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, query{SQL: sql, Args: args})
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if len(s.responses) > 0 {
		resp := s.responses[0]
		s.responses = s.responses[1:]
		return resp, nil
	}

	dbid, port, content := args[0].(int), args[1].(int), args[2].(int)
	var updated []coordinator.Row
	for _, row := range s.rows[content] {
		row["dbid"] = dbid
		row["port"] = port
		row["hostname"] = "10.0.0.7"
		row["address"] = "10.0.0.7"
		updated = append(updated, row)
	}
	return updated, nil
}

func (s *fakeSession) LocalAddr() string {
	return "10.0.0.7:50432"
}

func (s *fakeSession) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.closeErr
}

// captureLogs redirects the global logger into a buffer until the returned function is called.
func captureLogs() (*bytes.Buffer, func()) {
	prev := log.Logger
	buf := new(bytes.Buffer)
	log.Logger = zerolog.New(buf)
	return buf, func() {
		log.Logger = prev
	}
}

type logLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseLogs(buf *bytes.Buffer) (lines []logLine) {
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var l logLine
		if err := jsoniter.Unmarshal(scanner.Bytes(), &l); err == nil {
			lines = append(lines, l)
		}
	}
	return lines
}

func countLevel(lines []logLine, level string) (n int) {
	for _, l := range lines {
		if l.Level == level {
			n++
		}
	}
	return n
}
