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
	"bufio"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/crypto"
	"github.com/babencoin/babencoin/log"
	"github.com/babencoin/babencoin/params"
	"github.com/babencoin/babencoin/peer"
)

const frameDelim = 0x00

// Service is the reference Peer Transport agent. It owns every net.Conn
// this node holds; the gossip coordinator never sees one.
type Service struct {
	cfg      Config
	events   chan<- peer.Event
	commands <-chan peer.Command

	registry     *registry
	recentFrames common.Cache
	logger       log.Logger
}

func New(cfg Config, events chan<- peer.Event, commands <-chan peer.Command) *Service {
	recentFrames, err := common.NewCache(common.LRUConfig{CacheSize: 4096})
	if err != nil {
		panic(err)
	}
	return &Service{
		cfg:          cfg,
		events:       events,
		commands:     commands,
		registry:     newRegistry(),
		recentFrames: recentFrames,
		logger:       log.NewModuleLogger(log.Transport),
	}
}

// Run dials the configured peers, binds a listener, and serves both
// until stop is closed, then closes the listener and returns. It
// returns early with an error if binding the listener fails after every
// retry.
func (s *Service) Run(stop <-chan struct{}) error {
	listener, err := s.bindListener()
	if err != nil {
		return err
	}

	go s.dialAll(stop)
	go s.acceptLoop(listener, stop)
	go s.commandListener(stop)

	<-stop
	return listener.Close()
}

func (s *Service) bindListener() (net.Listener, error) {
	addr := s.cfg.ListenAddress
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	var lastErr error
	for i := 0; i < params.MaxListenRetries; i++ {
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			s.logger.Info("listening", "addr", listener.Addr())
			return listener, nil
		}
		lastErr = err
		s.logger.Warn("listen attempt failed", "addr", addr, "err", err)
		time.Sleep(s.cfg.DialCooldown)
	}
	return nil, errors.Wrap(ErrNoListener, lastErr.Error())
}

func (s *Service) dialAll(stop <-chan struct{}) {
	for _, addr := range s.cfg.DialAddresses {
		s.dialOne(addr, stop)
	}
}

func (s *Service) dialOne(addr string, stop <-chan struct{}) {
	for i := 0; i < params.MaxDialRetries; i++ {
		select {
		case <-stop:
			return
		default:
		}
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			s.addSession(conn)
			return
		}
		s.logger.Warn("dial failed", "addr", addr, "err", err)
		time.Sleep(s.cfg.DialCooldown)
	}
}

func (s *Service) acceptLoop(listener net.Listener, stop <-chan struct{}) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-stop:
				return
			default:
				s.logger.Warn("accept failed", "err", err)
				continue
			}
		}
		s.addSession(conn)
	}
}

func (s *Service) addSession(conn net.Conn) {
	id := s.registry.genSessionID()
	sess := newSession(conn)
	s.registry.add(id, sess)
	s.logger.Info("session connected", "session", id, "remote", conn.RemoteAddr())

	go s.writeLoop(id, sess)
	go s.readLoop(id, sess)

	s.events <- peer.Event{Session: id, Kind: peer.Connected}
}

// readLoop frames on NUL, decodes, and emits one NewMessage event per
// frame. An oversize frame, a read error, or a malformed message ends
// the session (SPEC_FULL.md §7). Signatures are not checked here; a
// message that fails verification is dropped by the gossip coordinator,
// which then issues a Drop command for the session.
func (s *Service) readLoop(id peer.SessionID, sess *session) {
	defer s.endSession(id, sess)

	r := bufio.NewReader(sess.conn)
	buf := make([]byte, 0, 4096)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		if b == frameDelim {
			frameHash := crypto.Keccak256(buf)
			if !s.recentFrames.Contains(frameHash) {
				s.recentFrames.Add(frameHash, struct{}{})
				msg, err := peer.Decode(buf)
				if err != nil {
					s.logger.Warn("dropping session on malformed frame", "session", id, "err", err)
					return
				}
				s.events <- peer.Event{Session: id, Kind: peer.NewMessage, Message: msg}
			}
			buf = buf[:0]
			continue
		}
		if len(buf) >= params.MaxMessageSize {
			s.logger.Warn("dropping session on oversize frame", "session", id, "err", ErrOversizeFrame)
			return
		}
		buf = append(buf, b)
	}
}

func (s *Service) endSession(id peer.SessionID, sess *session) {
	s.registry.remove(id)
	sess.close()
	s.events <- peer.Event{Session: id, Kind: peer.Disconnected}
}

// writeLoop drains sess.queue until sess.done is closed (by endSession)
// or a Drop command arrives. A write error ends the session from this side
// too so the read loop's next read fails and it exits symmetrically.
func (s *Service) writeLoop(id peer.SessionID, sess *session) {
	for {
		select {
		case cmd := <-sess.queue:
			switch cmd.Kind {
			case peer.SendMessage:
				if err := writeFrame(sess.conn, cmd.Message); err != nil {
					s.logger.Warn("write failed", "session", id, "err", err)
					sess.close()
					return
				}
			case peer.Drop:
				sess.close()
				return
			}
		case <-sess.done:
			return
		}
	}
}

func writeFrame(conn net.Conn, msg peer.Message) error {
	encoded, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	encoded = append(encoded, frameDelim)
	_, err = conn.Write(encoded)
	return err
}

// commandListener routes coordinator commands to the addressed
// session's bounded write queue. An unknown session (already
// disconnected) is silently ignored; a full queue drops the command
// rather than blocking the coordinator, per SPEC_FULL.md §4.2's
// ordering guarantee ("never blocks on the command channel for longer
// than one send").
func (s *Service) commandListener(stop <-chan struct{}) {
	for {
		select {
		case cmd, ok := <-s.commands:
			if !ok {
				s.logger.Crit("command channel closed")
			}
			s.dispatch(cmd)
		case <-stop:
			return
		}
	}
}

func (s *Service) dispatch(cmd peer.Command) {
	sess, ok := s.registry.get(cmd.Session)
	if !ok {
		return
	}
	select {
	case sess.queue <- cmd:
	case <-sess.done:
	default:
		s.logger.Warn("write queue full, dropping command", "session", cmd.Session)
	}
}
