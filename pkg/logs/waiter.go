/*
   Copyright 2020 Docker Compose CLI authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package logs

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/utils"
)

// DefaultTailLines is the number of log lines kept for diagnostics
const DefaultTailLines = 100

// Source is a live log stream of a container
type Source struct {
	// Name identifies the stream in logs and errors
	Name string
	// Open acquires the stream. It must follow the log (block waiting for
	// new lines) and stop when ctx is done or the reader is closed.
	Open func(ctx context.Context) (io.ReadCloser, error)
	// Multiplexed is true for non-TTY container logs framed by the engine
	Multiplexed bool
}

// Waiter waits for log lines satisfying a Matcher under a timeout
type Waiter struct {
	clock     clockwork.Clock
	tailLines int
	stripANSI bool
}

// WaiterOption customizes a Waiter
type WaiterOption func(*Waiter)

// WithClock sets the clock used for the timeout
func WithClock(clock clockwork.Clock) WaiterOption {
	return func(w *Waiter) {
		w.clock = clock
	}
}

// WithTailLines sets how many lines are kept for error diagnostics
func WithTailLines(n int) WaiterOption {
	return func(w *Waiter) {
		w.tailLines = n
	}
}

// WithoutANSI removes terminal escape sequences from lines before they are
// matched, as written by containers attached to a TTY
func WithoutANSI() WaiterOption {
	return func(w *Waiter) {
		w.stripANSI = true
	}
}

// NewWaiter creates a Waiter using the real clock by default
func NewWaiter(opts ...WaiterOption) *Waiter {
	w := &Waiter{
		clock:     clockwork.NewRealClock(),
		tailLines: DefaultTailLines,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type openResult struct {
	rc  io.ReadCloser
	err error
}

// abandonOpen cancels a pending Open and closes the stream if it still
// came through.
func abandonOpen(cancel context.CancelFunc, opening <-chan openResult) {
	cancel()
	if o := <-opening; o.rc != nil {
		_ = o.rc.Close()
	}
}

// Wait reads lines from src until m reports Matched and returns the matching
// line. It fails with *api.LogTimeoutError when timeout expires first, and
// with *api.StreamEndedError when the stream terminates before a match.
//
// Opening the stream and the blocking read run on their own goroutines,
// both bounded by the timeout. Whatever the outcome the stream is closed
// and those goroutines have exited when Wait returns.
func (w *Waiter) Wait(ctx context.Context, src Source, m Matcher, timeout time.Duration) (string, error) {
	timer := w.clock.NewTimer(timeout)
	defer timer.Stop()

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the timeout also covers acquiring the stream
	opening := make(chan openResult, 1)
	go func() {
		rc, err := src.Open(streamCtx)
		opening <- openResult{rc: rc, err: err}
	}()
	var rc io.ReadCloser
	select {
	case o := <-opening:
		if o.err != nil {
			return "", errors.Wrapf(o.err, "failed to open log stream of %s", src.Name)
		}
		rc = o.rc
	case <-timer.Chan():
		abandonOpen(cancel, opening)
		return "", &api.LogTimeoutError{
			Pattern: m.String(),
			Timeout: timeout,
		}
	case <-ctx.Done():
		abandonOpen(cancel, opening)
		return "", ctx.Err()
	}

	lines := make(chan string)
	stopped := make(chan struct{})
	var eg errgroup.Group
	eg.Go(func() error {
		defer close(lines)
		sink := utils.GetWriter(func(line string) {
			if w.stripANSI {
				line = stripansi.Strip(line)
			}
			select {
			case lines <- line:
			case <-stopped:
			}
		})
		var err error
		if src.Multiplexed {
			_, err = stdcopy.StdCopy(sink, sink, rc)
		} else {
			_, err = io.Copy(sink, rc)
		}
		_ = sink.Close()
		return err
	})

	var once sync.Once
	var readErr error
	release := func() error {
		once.Do(func() {
			close(stopped)
			cancel()
			// closing the stream unblocks a read waiting for the next line
			_ = rc.Close()
			readErr = eg.Wait()
		})
		return readErr
	}
	defer release() //nolint:errcheck

	tail := NewTail(w.tailLines)
	logger := logrus.WithField("container", src.Name)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				cause := release()
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				logger.Debugf("log stream ended before a match for %s", m)
				return "", &api.StreamEndedError{
					Pattern: m.String(),
					Tail:    tail.Lines(),
					Cause:   cause,
				}
			}
			tail.Add(line)
			switch r := m.Feed(line); r.Kind {
			case Matched:
				logger.Debugf("log line matched: %q", line)
				_ = release()
				return line, nil
			case Progressed:
				logger.Debugf("log line matched %s", m)
			}
		case <-timer.Chan():
			_ = release()
			return "", &api.LogTimeoutError{
				Pattern: m.String(),
				Timeout: timeout,
				Tail:    tail.Lines(),
			}
		case <-ctx.Done():
			_ = release()
			return "", ctx.Err()
		}
	}
}
