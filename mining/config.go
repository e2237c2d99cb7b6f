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

package mining

import (
	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/params"
)

// Config is MiningService's recognized options (SPEC_FULL.md §6).
type Config struct {
	// ThreadCount is the number of worker goroutines to race per round.
	// Zero means runtime.NumCPU().
	ThreadCount int

	// MaxTxPerBlock bounds how many pending transactions a mined block
	// may include.
	MaxTxPerBlock int

	// PublicKey is the wallet credited as issuer of every block this
	// engine mines.
	PublicKey common.WalletID
}

// Default returns a Config suitable for a single local node: all cores,
// the protocol default tx cap, zero wallet (callers are expected to
// override PublicKey with a real wallet).
func Default() Config {
	return Config{
		ThreadCount:   0,
		MaxTxPerBlock: params.DefaultMaxTxPerBlock,
	}
}
