// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kvstore

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/danctnix/tweaks/pkg/defaults"
)

const (
	dconfInterface = "ca.desrt.dconf.Writer"
	dconfMember    = "Notify"
)

// DconfWatcher dispatches dconf Notify signals from the session bus to
// subscribers of individual key paths. The bus connection is opened on the
// first subscription.
type DconfWatcher struct {
	connect func() (*dbus.Conn, error)

	mu     sync.Mutex
	conn   *dbus.Conn
	signal chan *dbus.Signal
	subs   map[uint64]subscription
	nextID uint64
}

type subscription struct {
	path string
	fn   func()
}

// NewDconfWatcher returns a watcher using the session bus.
func NewDconfWatcher() *DconfWatcher {
	return &DconfWatcher{
		connect: func() (*dbus.Conn, error) {
			return dialTimeout(func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }, defaults.KVConnectTimeout)
		},
		subs: make(map[uint64]subscription),
	}
}

// dialTimeout gives up on dial after timeout. A connection that arrives
// later is closed.
func dialTimeout(dial func() (*dbus.Conn, error), timeout time.Duration) (*dbus.Conn, error) {
	type result struct {
		conn *dbus.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := dial()
		ch <- result{conn, err}
	}()

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-time.After(timeout):
		go func() {
			if r := <-ch; r.conn != nil {
				r.conn.Close()
			}
		}()
		return nil, fmt.Errorf("session bus did not answer within %s", timeout)
	}
}

// Subscribe registers fn for changes of path.
func (w *DconfWatcher) Subscribe(path string, fn func()) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		if err := w.start(); err != nil {
			return nil, err
		}
	}

	id := w.nextID
	w.nextID++
	w.subs[id] = subscription{path: path, fn: fn}

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}, nil
}

// start must be called with w.mu held.
func (w *DconfWatcher) start() error {
	conn, err := w.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(dconfInterface),
		dbus.WithMatchMember(dconfMember),
	); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to dconf notifications: %w", err)
	}

	w.conn = conn
	w.signal = make(chan *dbus.Signal, 16)
	conn.Signal(w.signal)
	go w.loop(w.signal)
	return nil
}

func (w *DconfWatcher) loop(ch <-chan *dbus.Signal) {
	for sig := range ch {
		if sig == nil || sig.Name != dconfInterface+"."+dconfMember {
			continue
		}
		prefix, changes, ok := notifyBody(sig.Body)
		if !ok {
			slog.Debug("ignoring malformed dconf notification", "body", sig.Body)
			continue
		}
		w.dispatch(prefix, changes)
	}
}

// dispatch invokes every subscriber whose path is covered by the
// notification. A prefix ending in "/" with an empty change list marks the
// whole directory as changed.
func (w *DconfWatcher) dispatch(prefix string, changes []string) {
	w.mu.Lock()
	var fns []func()
	for _, s := range w.subs {
		if matchesNotify(s.path, prefix, changes) {
			fns = append(fns, s.fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func matchesNotify(path, prefix string, changes []string) bool {
	if len(changes) == 0 || (len(changes) == 1 && changes[0] == "") {
		if strings.HasSuffix(prefix, "/") {
			return strings.HasPrefix(path, prefix)
		}
		return path == prefix
	}
	for _, c := range changes {
		full := prefix + c
		if full == path || (strings.HasSuffix(full, "/") && strings.HasPrefix(path, full)) {
			return true
		}
	}
	return false
}

func notifyBody(body []any) (string, []string, bool) {
	if len(body) < 2 {
		return "", nil, false
	}
	prefix, ok := body[0].(string)
	if !ok {
		return "", nil, false
	}
	changes, ok := body[1].([]string)
	if !ok {
		return "", nil, false
	}
	return prefix, changes, true
}

// Close disconnects from the bus. Pending subscriptions stop firing.
func (w *DconfWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil
	}
	w.conn.RemoveSignal(w.signal)
	err := w.conn.Close()
	close(w.signal)
	w.conn = nil
	return err
}
