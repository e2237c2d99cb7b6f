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

// Package transport is the reference Peer Transport agent (SPEC_FULL.md
// §2): TCP accept/dial, NUL-delimited JSON framing, and a session
// registry, grounded in the original peer_service.rs. It is the only
// package in this module aware of net.Conn; everything it produces and
// consumes is peer.Event / peer.Command, so a different transport can
// be dropped in without touching forest, gossip, or mining.
package transport

import "time"

// Config is PeerService's recognized options (SPEC_FULL.md §6).
type Config struct {
	// DialCooldown is the backoff between dial or listen-bind retries.
	DialCooldown time.Duration

	// DialAddresses are dialed at startup, in order; each address is
	// retried up to params.MaxDialRetries times until one attempt connects.
	DialAddresses []string

	// ListenAddress is the TCP bind address. Empty means bind to a
	// random local ephemeral port.
	ListenAddress string
}

func Default() Config {
	return Config{DialCooldown: 2 * time.Second}
}
