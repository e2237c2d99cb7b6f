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

// Package crypto provides the two cryptographic primitives the node
// needs: content hashing and signature verification. Hashing follows the
// teacher's own crypto/sha3-based approach to header hashing (see
// node/ranger/handler.go's sigHash); signing uses Ed25519 from the same
// golang.org/x/crypto module the teacher already depends on.
package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/babencoin/babencoin/common"
)

const SignatureLength = ed25519.SignatureSize // 64

// GenesisPrivateKey returns the private key matching
// common.GenesisWalletID(), derived from the same all-zero seed. It
// exists only so mint transactions (and tests) can be signed; genesis
// key *management* beyond "everyone knows this seed" is a non-goal.
func GenesisPrivateKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
}

// Keccak256 hashes the concatenation of its arguments into a common.Hash.
func Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// GenerateWallet returns a fresh Ed25519 keypair: a WalletID (public key)
// and the private key that signs on its behalf. Key *management*
// (persistence, CLI key-gen UX) is out of scope; this exists only so
// tests and the mining binary can stand up a wallet to sign with.
func GenerateWallet() (common.WalletID, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return common.WalletID{}, nil, err
	}
	return common.BytesToWalletID(pub), priv, nil
}

// Sign signs payload with priv.
func Sign(priv ed25519.PrivateKey, payload []byte) []byte {
	return ed25519.Sign(priv, payload)
}

// Verify reports whether sig is a valid signature by wallet over payload.
func Verify(wallet common.WalletID, payload, sig []byte) bool {
	if len(sig) != SignatureLength {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(wallet.Bytes()), payload, sig)
}
