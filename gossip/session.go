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

package gossip

import set "gopkg.in/fatih/set.v0"

// maxKnownBlocks/maxKnownTxs bound the per-session known sets the same
// way the teacher bounds baseBridgePeer's knownBlocks/knownTxs, evicting
// an arbitrary entry (set.Pop keeps no insertion order) rather than
// growing without limit across a very long session.
const (
	maxKnownBlocks = 4096
	maxKnownTxs    = 32768
)

// sessionState is the per-peer "known" record of SPEC_FULL.md §3: two
// sets suppressing echo of blocks and transactions already exchanged
// with this session in either direction.
type sessionState struct {
	knownBlocks *set.Set
	knownTxs    *set.Set
}

func newSessionState() *sessionState {
	return &sessionState{knownBlocks: set.New(), knownTxs: set.New()}
}

func (s *sessionState) markBlockKnown(key interface{}) {
	for s.knownBlocks.Size() >= maxKnownBlocks {
		s.knownBlocks.Pop()
	}
	s.knownBlocks.Add(key)
}

func (s *sessionState) markTxKnown(key interface{}) {
	for s.knownTxs.Size() >= maxKnownTxs {
		s.knownTxs.Pop()
	}
	s.knownTxs.Add(key)
}
