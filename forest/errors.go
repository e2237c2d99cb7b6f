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

import "github.com/pkg/errors"

// Sentinel errors for AddBlock/AddTransaction, matching the disposition
// table in SPEC_FULL.md §7: structural failures are permanent, pending
// parent is a deferral (orphan), duplicate is silently ignored by
// callers, balance underflow is a per-(block,chain) rejection.
var (
	// ErrPendingParent means the block's parent is not yet stored; it has
	// been placed in the orphan set and will be retried automatically
	// once the parent arrives.
	ErrPendingParent = errors.New("forest: parent block not yet known")

	// ErrDuplicateBlock means this exact block hash is already stored.
	ErrDuplicateBlock = errors.New("forest: block already known")

	// ErrDuplicateTransaction means this exact transaction hash is
	// already pending or already committed on the head's chain.
	ErrDuplicateTransaction = errors.New("forest: transaction already known")

	// ErrBalanceUnderflow means applying the block or transaction would
	// drive some wallet's balance negative.
	ErrBalanceUnderflow = errors.New("forest: insufficient balance")
)
