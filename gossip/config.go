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

// Package gossip is the sole mutator of the block forest: it routes
// peer events into it, fans verified objects back out while preventing
// echo, and asks peers for missing ancestors (SPEC_FULL.md §4.2).
package gossip

import "time"

// Config is GossipService's recognized options (SPEC_FULL.md §6).
type Config struct {
	// EagerRequestsInterval is the catch-up ticker period. Zero disables
	// the ticker entirely.
	EagerRequestsInterval time.Duration
}

func Default() Config {
	return Config{EagerRequestsInterval: 5 * time.Second}
}
