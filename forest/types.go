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

// Package forest holds the data model (transactions, blocks) and the
// block-forest state machine: the sole owner of chain state, described
// in SPEC_FULL.md §3 and §4.1.
package forest

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/crypto"
	"github.com/babencoin/babencoin/params"
)

// sigCache memoizes a (content hash, signature) pair -> "signature
// already checked valid" so that re-verifying the same transaction (a re-gossiped block,
// a retried orphan) does not repeat an Ed25519 verify. It only ever
// short-circuits a check that would have succeeded anyway; a cache miss
// always falls through to the real check, so an evicted or never-cached
// entry is never less correct, only slower.
var sigCache = mustNewCache(common.LRUConfig{CacheSize: 16384})

func mustNewCache(cfg common.CacheConfiger) common.Cache {
	c, err := common.NewCache(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Transaction is a raw, as-received transaction: it has not yet passed
// signature or shape checks. See VerifiedTransaction.
type Transaction struct {
	Sender    common.WalletID `json:"sender"`
	Receiver  common.WalletID `json:"receiver"`
	Amount    uint64          `json:"amount"`
	Fee       uint64          `json:"fee"`
	Comment   string          `json:"comment"`
	Signature []byte          `json:"signature"`
}

// SigningPayload is the canonical concatenation signed by the sender and
// hashed for the transaction's content hash: sender, receiver, amount,
// fee, comment, in that order (SPEC_FULL.md §6).
func (t *Transaction) SigningPayload() []byte {
	buf := make([]byte, 0, common.WalletIDLength*2+16+len(t.Comment))
	buf = append(buf, t.Sender.Bytes()...)
	buf = append(buf, t.Receiver.Bytes()...)
	buf = appendUint64(buf, t.Amount)
	buf = appendUint64(buf, t.Fee)
	buf = append(buf, []byte(t.Comment)...)
	return buf
}

// Hash is the transaction's content hash. Transactions carry no
// timestamp or nonce, so two transactions are equal iff their content
// hashes match (SPEC_FULL.md §3).
func (t *Transaction) Hash() common.Hash {
	return crypto.Keccak256(t.SigningPayload())
}

var (
	ErrSenderIsReceiver = errors.New("forest: sender and receiver are the same wallet")
	ErrAmountOverflow   = errors.New("forest: amount+fee overflows")
	ErrBadSignature     = errors.New("forest: signature does not match sender")
)

// Verify checks the structural invariants of SPEC_FULL.md §3 (signature
// matches sender, sender != receiver, amount+fee does not overflow) and
// returns the type-tagged VerifiedTransaction on success.
func (t Transaction) Verify() (VerifiedTransaction, error) {
	if t.Sender == t.Receiver {
		return VerifiedTransaction{}, ErrSenderIsReceiver
	}
	if t.Amount > ^uint64(0)-t.Fee {
		return VerifiedTransaction{}, ErrAmountOverflow
	}
	// Keyed by hash-of-(content hash, signature), not the content hash
	// alone: the content hash never covers the signature bytes, so
	// keying on it by itself would let a forged signature over an
	// already-seen payload ride in on the first transaction's cache hit.
	sigKey := crypto.Keccak256(t.Hash().Bytes(), t.Signature)
	if !sigCache.Contains(sigKey) {
		if !crypto.Verify(t.Sender, t.SigningPayload(), t.Signature) {
			return VerifiedTransaction{}, ErrBadSignature
		}
		sigCache.Add(sigKey, struct{}{})
	}
	return VerifiedTransaction{tx: t}, nil
}

// VerifiedTransaction is a Transaction that has passed Verify. The
// distinction is a type-level tag, not a runtime flag: there is no way
// to obtain one except through Transaction.Verify.
type VerifiedTransaction struct {
	tx Transaction
}

func (v VerifiedTransaction) Hash() common.Hash         { return v.tx.Hash() }
func (v VerifiedTransaction) Raw() Transaction           { return v.tx }
func (v VerifiedTransaction) Sender() common.WalletID   { return v.tx.Sender }
func (v VerifiedTransaction) Receiver() common.WalletID { return v.tx.Receiver }
func (v VerifiedTransaction) Amount() uint64            { return v.tx.Amount }
func (v VerifiedTransaction) Fee() uint64               { return v.tx.Fee }

////////////////////////////////////////////////////////////////////////////

// BlockAttributes is everything about a block except its transaction
// list (SPEC_FULL.md §3).
type BlockAttributes struct {
	Index     uint64          `json:"index"`
	PrevHash  common.Hash     `json:"prev_hash"`
	MaxHash   common.Hash     `json:"max_hash"`
	Nonce     uint64          `json:"nonce"`
	Timestamp time.Time       `json:"timestamp"`
	Issuer    common.WalletID `json:"issuer"`
	Reward    uint64          `json:"reward"`
}

func (a *BlockAttributes) canonicalBytes() []byte {
	buf := make([]byte, 0, 8+common.HashLength*2+8+8+common.WalletIDLength+8)
	buf = appendUint64(buf, a.Index)
	buf = append(buf, a.PrevHash.Bytes()...)
	buf = append(buf, a.MaxHash.Bytes()...)
	buf = appendUint64(buf, a.Nonce)
	buf = appendUint64(buf, uint64(a.Timestamp.UnixNano()))
	buf = append(buf, a.Issuer.Bytes()...)
	buf = appendUint64(buf, a.Reward)
	return buf
}

// Block is a raw, as-received block: attributes plus an ordered list of
// (also raw) transactions.
type Block struct {
	Attrs        BlockAttributes `json:"attrs"`
	Transactions []Transaction   `json:"transactions"`
}

// Hash covers the canonical serialization of the attributes followed by
// the ordered transaction hashes (SPEC_FULL.md §3 and §6).
func (b *Block) Hash() common.Hash {
	payload := b.Attrs.canonicalBytes()
	for i := range b.Transactions {
		h := b.Transactions[i].Hash()
		payload = append(payload, h.Bytes()...)
	}
	return crypto.Keccak256(payload)
}

var (
	ErrDifficultyNotMet  = errors.New("forest: block hash exceeds its declared max_hash")
	ErrRewardTooLarge    = errors.New("forest: reward exceeds MaxReward")
	ErrDuplicateTxInBlock = errors.New("forest: duplicate transaction within block")
)

// Verify checks the structural invariants of SPEC_FULL.md §3: hash <=
// max_hash, every transaction individually verifies, and transactions
// are unique within the block.
func (b Block) Verify() (VerifiedBlock, error) {
	if b.Attrs.Reward > params.MaxReward {
		return VerifiedBlock{}, ErrRewardTooLarge
	}
	hash := b.Hash()
	if !hash.LessOrEqual(b.Attrs.MaxHash) {
		return VerifiedBlock{}, ErrDifficultyNotMet
	}

	verifiedTxs := make([]VerifiedTransaction, 0, len(b.Transactions))
	seen := make(map[common.Hash]struct{}, len(b.Transactions))
	for i := range b.Transactions {
		vt, err := b.Transactions[i].Verify()
		if err != nil {
			return VerifiedBlock{}, err
		}
		th := vt.Hash()
		if _, dup := seen[th]; dup {
			return VerifiedBlock{}, ErrDuplicateTxInBlock
		}
		seen[th] = struct{}{}
		verifiedTxs = append(verifiedTxs, vt)
	}

	return VerifiedBlock{
		attrs:        b.Attrs,
		transactions: verifiedTxs,
		hash:         hash,
	}, nil
}

// VerifiedBlock is a Block that has passed Verify.
type VerifiedBlock struct {
	attrs        BlockAttributes
	transactions []VerifiedTransaction
	hash         common.Hash
}

func (v VerifiedBlock) Hash() common.Hash       { return v.hash }
func (v VerifiedBlock) Attrs() BlockAttributes  { return v.attrs }
func (v VerifiedBlock) Transactions() []VerifiedTransaction {
	return v.transactions
}

// Raw reconstructs the wire-format Block for re-serialization/re-gossip.
func (v VerifiedBlock) Raw() Block {
	txs := make([]Transaction, len(v.transactions))
	for i, vt := range v.transactions {
		txs[i] = vt.Raw()
	}
	return Block{Attrs: v.attrs, Transactions: txs}
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
