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

import (
	"time"

	"github.com/babencoin/babencoin/common"
)

// genesisTimestamp is fixed so that every honest node computes the exact
// same genesis hash.
var genesisTimestamp = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// Genesis constructs the hard-coded genesis block every forest is seeded
// with. It does not go through Block.Verify: genesis is exempt from the
// max-hash bound by construction, it is simply the root of the tree.
func Genesis() VerifiedBlock {
	attrs := BlockAttributes{
		Index:     0,
		PrevHash:  common.Hash{},
		MaxHash:   common.Hash{},
		Nonce:     0,
		Timestamp: genesisTimestamp,
		Issuer:    common.GenesisWalletID(),
		Reward:    0,
	}
	return VerifiedBlock{
		attrs:        attrs,
		transactions: nil,
		hash:         (&Block{Attrs: attrs}).Hash(),
	}
}
