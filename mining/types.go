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

// Package mining races worker goroutines to find a nonce that brings a
// candidate block's hash under the current difficulty target
// (SPEC_FULL.md §4.3).
package mining

import (
	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/forest"
)

// Info is an immutable snapshot of what the engine should mine against.
// It carries values, never references into the forest, so mining
// latency never couples to forest-mutation latency.
type Info struct {
	BlockIndex   uint64
	PrevHash     common.Hash
	MaxHash      common.Hash
	Transactions []forest.VerifiedTransaction
}
