// Copyright 2018 The go-klaytn Authors
// This file is part of the go-klaytn library.
//
// The go-klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-klaytn library. If not, see <http://www.gnu.org/licenses/>.

package transport

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"sync"

	"github.com/babencoin/babencoin/params"
	"github.com/babencoin/babencoin/peer"
)

// session is the per-connection write side: one bounded queue feeding
// one writer goroutine, exactly the shared structure SPEC_FULL.md §5
// calls out as the only mutable data shared between threads.
type session struct {
	conn  net.Conn
	queue chan peer.Command
	done  chan struct{}

	closeOnce sync.Once
}

func newSession(conn net.Conn) *session {
	return &session{
		conn:  conn,
		queue: make(chan peer.Command, params.CommandQueueDepth),
		done:  make(chan struct{}),
	}
}

// close is idempotent: either the read loop (on socket error/EOF) or a
// Drop command (via the write loop) may trigger it first. done is
// closed rather than queue, so a concurrent dispatch() racing this call
// can never panic on a send to a closed channel.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// registry is the read-mostly session-id -> session map, guarded by a
// reader/writer lock the same way the teacher guards its peer set
// (e.g. node/sc's bridgepeer registry).
type registry struct {
	mu       sync.RWMutex
	sessions map[peer.SessionID]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[peer.SessionID]*session)}
}

func (r *registry) add(id peer.SessionID, s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s
}

func (r *registry) remove(id peer.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *registry) get(id peer.SessionID) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) has(id peer.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// genSessionID returns a random session id not currently in the
// registry, retrying on collision up to params.MaxSessionIDRetries
// (gen_unique_session_id in the original peer_service.rs). A collision
// within that bound is astronomically unlikely; the last draw is
// returned regardless so session admission never blocks indefinitely.
func (r *registry) genSessionID() peer.SessionID {
	var id peer.SessionID
	for i := 0; i < params.MaxSessionIDRetries; i++ {
		id = randomSessionID()
		if !r.has(id) {
			return id
		}
	}
	return id
}

func randomSessionID() peer.SessionID {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return peer.SessionID(binary.BigEndian.Uint64(b[:]))
}
