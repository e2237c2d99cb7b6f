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

package forest

import "github.com/babencoin/babencoin/common"

// node is the internal forest record described in SPEC_FULL.md §3: a
// verified block plus everything that would be expensive to recompute
// on every query - its cumulative chain length and wallet balances from
// genesis, and the set of children that point back at it. Nodes are
// created once, on admission, and never mutated afterwards.
type node struct {
	block       VerifiedBlock
	hash        common.Hash
	parentHash  common.Hash
	isGenesis   bool
	chainLength uint64

	// balances is the wallet-balance map resulting from applying
	// genesis..this block, in order. It is a snapshot, not shared with
	// any other node.
	balances map[common.WalletID]uint64

	// committed is the set of transaction hashes that appear anywhere
	// from genesis to this block. Used to answer "is tx X already on
	// this chain" in O(1) without walking parent pointers.
	committed map[common.Hash]struct{}

	children map[common.Hash]struct{}
}

func (n *node) addChild(h common.Hash) {
	n.children[h] = struct{}{}
}
