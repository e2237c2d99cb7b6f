// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package params

import (
	"github.com/babencoin/babencoin/common"
)

const (
	// MaxReward bounds the reward a mined block may credit to its issuer.
	MaxReward uint64 = 50

	// MaxMessageSize caps a single framed peer message, per the wire
	// protocol in SPEC_FULL.md §6. An oversize frame ends the session.
	MaxMessageSize = 64 * 1024

	// MaxSessionIDRetries bounds retries when a freshly generated random
	// session id collides with one already registered.
	MaxSessionIDRetries = 16

	// MaxDialRetries bounds retries of an outbound dial to a configured
	// peer address, spaced by the caller's dial_cooldown.
	MaxDialRetries = 5

	// MaxListenRetries bounds retries of binding the listen address.
	MaxListenRetries = 5

	// CommandQueueDepth is the bound on a session's outbound command
	// queue. A slow peer backs up its own queue without blocking others.
	CommandQueueDepth = 256

	// DefaultMaxTxPerBlock is the MaxTxPerBlock set by mining.Default.
	DefaultMaxTxPerBlock = 128
)

// InitialMaxHash is the network's difficulty target. SPEC_FULL.md §4.1
// resolves the open "difficulty schedule" question by fixing this as a
// constant rather than a retarget function: next_max_hash always returns
// this value, regardless of head state. A node joining a harder network
// only needs to lower this constant.
var InitialMaxHash = func() common.Hash {
	// Leading byte 0x00 requires roughly 8 bits of leading-zero work on
	// average per mined block - light enough for a test network, heavy
	// enough that a single honest miner cannot win every round by luck.
	var h common.Hash
	for i := range h {
		h[i] = 0xff
	}
	h[0] = 0x00
	return h
}()

// NextMaxHash is the difficulty schedule. See InitialMaxHash.
func NextMaxHash(head common.Hash) common.Hash {
	return InitialMaxHash
}
