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

package common

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/ed25519"
)

// HashLength is the width in bytes of a block or transaction content hash.
const HashLength = 32

// WalletIDLength is the width in bytes of a wallet id (an Ed25519 public key).
const WalletIDLength = 32

// Hash is a fixed-width content digest. Hash equality implies identity of
// the block or transaction it was computed over.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return Hash{}, err
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("common: invalid hash length %d", len(b))
	}
	return BytesToHash(b), nil
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Less orders hashes as big-endian unsigned integers, the tie-break used
// for chain-head selection. The hash <= max-hash difficulty check uses
// LessOrEqual.
func (h Hash) Less(other Hash) bool {
	return bytes.Compare(h[:], other[:]) < 0
}

// LessOrEqual reports whether h, read as a big-endian integer, is below
// or at the given difficulty target.
func (h Hash) LessOrEqual(target Hash) bool {
	return bytes.Compare(h[:], target[:]) <= 0
}

func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// WalletID identifies a wallet by its Ed25519 public key.
type WalletID [WalletIDLength]byte

// genesisWalletID is derived from an all-zero Ed25519 seed, not the
// all-zero WalletID itself: it must be a real public key so that the
// genesis wallet can sign mint transactions (its matching private key
// is exposed by crypto.GenesisPrivateKey). Key *management* is a
// non-goal, but a network still needs one knowable genesis signer.
var genesisWalletID = BytesToWalletID(ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize)).Public().(ed25519.PublicKey))

// GenesisWalletID is the designated mint source before any block exists.
func GenesisWalletID() WalletID { return genesisWalletID }

func BytesToWalletID(b []byte) WalletID {
	var w WalletID
	copy(w[:], b)
	return w
}

func HexToWalletID(s string) (WalletID, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return WalletID{}, err
	}
	if len(b) != WalletIDLength {
		return WalletID{}, fmt.Errorf("common: invalid wallet id length %d", len(b))
	}
	return BytesToWalletID(b), nil
}

func (w WalletID) Bytes() []byte { return w[:] }

func (w WalletID) Hex() string { return "0x" + hex.EncodeToString(w[:]) }

func (w WalletID) String() string { return w.Hex() }

func (w WalletID) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Hex())
}

func (w *WalletID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := HexToWalletID(s)
	if err != nil {
		return err
	}
	*w = decoded
	return nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
