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
	metrics "github.com/rcrowley/go-metrics"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/log"
	"github.com/babencoin/babencoin/params"
)

var (
	chainLengthGauge     = metrics.NewRegisteredGauge("forest/chain_length", nil)
	pendingPoolSizeGauge = metrics.NewRegisteredGauge("forest/pending_pool_size", nil)
)

// BlockForest is the sole owner of chain state (SPEC_FULL.md §4.1). It
// is never accessed from more than one goroutine; the gossip coordinator
// owns it exclusively.
type BlockForest struct {
	nodes   map[common.Hash]*node
	head    common.Hash
	orphans map[common.Hash]map[common.Hash]VerifiedBlock // awaited parent hash -> child hash -> block
	pending map[common.Hash]VerifiedTransaction
	known   map[common.Hash]VerifiedTransaction // every tx ever verified+admitted, for reorg resurrection

	logger log.Logger
}

// New seeds a forest with the hard-coded genesis block.
func New() *BlockForest {
	g := Genesis()
	gh := g.Hash()
	root := &node{
		block:       g,
		hash:        gh,
		parentHash:  common.Hash{},
		isGenesis:   true,
		chainLength: 0,
		balances:    make(map[common.WalletID]uint64),
		committed:   make(map[common.Hash]struct{}),
		children:    make(map[common.Hash]struct{}),
	}
	return &BlockForest{
		nodes:   map[common.Hash]*node{gh: root},
		head:    gh,
		orphans: make(map[common.Hash]map[common.Hash]VerifiedBlock),
		pending: make(map[common.Hash]VerifiedTransaction),
		known:   make(map[common.Hash]VerifiedTransaction),
		logger:  log.NewModuleLogger(log.Forest),
	}
}

// AddBlock admits b per SPEC_FULL.md §4.1: structural verification,
// then either linking onto a known parent or deferring as an orphan.
func (f *BlockForest) AddBlock(b Block) error {
	vb, err := b.Verify()
	if err != nil {
		return err
	}
	return f.addVerified(vb)
}

func (f *BlockForest) addVerified(vb VerifiedBlock) error {
	hash := vb.Hash()
	if _, exists := f.nodes[hash]; exists {
		return ErrDuplicateBlock
	}
	parentHash := vb.Attrs().PrevHash
	parent, ok := f.nodes[parentHash]
	if !ok {
		f.storeOrphan(parentHash, vb)
		return ErrPendingParent
	}
	if err := f.link(parent, vb); err != nil {
		return err
	}
	f.drainOrphans([]common.Hash{hash})
	return nil
}

// link admits vb onto a known parent, applying its reward and
// transactions against the parent's cached balances.
func (f *BlockForest) link(parent *node, vb VerifiedBlock) error {
	balances, committed, err := applyBlock(parent, vb)
	if err != nil {
		return err
	}
	hash := vb.Hash()
	n := &node{
		block:       vb,
		hash:        hash,
		parentHash:  parent.hash,
		chainLength: parent.chainLength + 1,
		balances:    balances,
		committed:   committed,
		children:    make(map[common.Hash]struct{}),
	}
	f.nodes[hash] = n
	parent.addChild(hash)
	for _, vt := range vb.Transactions() {
		f.known[vt.Hash()] = vt
	}
	f.reselectHead()
	f.recomputePending()
	return nil
}

// storeOrphan parks vb until parentHash is admitted.
func (f *BlockForest) storeOrphan(parentHash common.Hash, vb VerifiedBlock) {
	waiting, ok := f.orphans[parentHash]
	if !ok {
		waiting = make(map[common.Hash]VerifiedBlock)
		f.orphans[parentHash] = waiting
	}
	waiting[vb.Hash()] = vb
}

// drainOrphans iteratively admits orphans whose parent just became
// known. An explicit worklist (rather than recursion) keeps this safe
// against adversarially deep orphan chains (SPEC_FULL.md §9).
func (f *BlockForest) drainOrphans(newlyAdmitted []common.Hash) {
	queue := append([]common.Hash(nil), newlyAdmitted...)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]

		waiting, ok := f.orphans[h]
		if !ok {
			continue
		}
		delete(f.orphans, h)

		parent := f.nodes[h]
		for childHash, childBlock := range waiting {
			if err := f.link(parent, childBlock); err != nil {
				f.logger.Warn("dropping orphan that failed to admit", "hash", childHash, "err", err)
				continue
			}
			queue = append(queue, childHash)
		}
	}
}

// reselectHead picks the candidate with the greatest chain length,
// breaking ties by the numerically smallest hash (SPEC_FULL.md §4.1).
func (f *BlockForest) reselectHead() {
	var best *node
	for _, n := range f.nodes {
		if best == nil ||
			n.chainLength > best.chainLength ||
			(n.chainLength == best.chainLength && n.hash.Less(best.hash)) {
			best = n
		}
	}
	f.head = best.hash
	chainLengthGauge.Update(int64(best.chainLength))
}

// recomputePending rebuilds the pending pool against the (possibly new)
// head: every known transaction not committed on the head's chain is
// retested for balance validity and kept if it still passes.
func (f *BlockForest) recomputePending() {
	head := f.nodes[f.head]
	next := make(map[common.Hash]VerifiedTransaction, len(f.pending))
	for hash, vt := range f.known {
		if _, committed := head.committed[hash]; committed {
			continue
		}
		if canApplyTx(head.balances, vt) {
			next[hash] = vt
		}
	}
	f.pending = next
	pendingPoolSizeGauge.Update(int64(len(next)))
}

// AddTransaction admits tx into the pending pool per SPEC_FULL.md §4.1.
func (f *BlockForest) AddTransaction(tx Transaction) error {
	vt, err := tx.Verify()
	if err != nil {
		return err
	}
	hash := vt.Hash()
	head := f.nodes[f.head]
	if _, committed := head.committed[hash]; committed {
		return ErrDuplicateTransaction
	}
	if _, isPending := f.pending[hash]; isPending {
		return ErrDuplicateTransaction
	}
	if !canApplyTx(head.balances, vt) {
		return ErrBalanceUnderflow
	}
	f.known[hash] = vt
	f.pending[hash] = vt
	pendingPoolSizeGauge.Update(int64(len(f.pending)))
	return nil
}

// Head returns the current chain tip. Always defined.
func (f *BlockForest) Head() VerifiedBlock {
	return f.nodes[f.head].block
}

// HeadHash returns the hash of the current chain tip.
func (f *BlockForest) HeadHash() common.Hash {
	return f.head
}

// PendingTransactions returns a snapshot of the pending pool. Order is
// unspecified.
func (f *BlockForest) PendingTransactions() map[common.Hash]VerifiedTransaction {
	out := make(map[common.Hash]VerifiedTransaction, len(f.pending))
	for h, vt := range f.pending {
		out[h] = vt
	}
	return out
}

// NextMaxHash is the difficulty target the next block must meet.
func (f *BlockForest) NextMaxHash() common.Hash {
	return params.NextMaxHash(f.head)
}

// FindBlock looks a block up by hash.
func (f *BlockForest) FindBlock(hash common.Hash) (VerifiedBlock, bool) {
	n, ok := f.nodes[hash]
	if !ok {
		return VerifiedBlock{}, false
	}
	return n.block, true
}

// UnknownBlockHashes returns the parent hashes currently awaited by
// stored orphans.
func (f *BlockForest) UnknownBlockHashes() []common.Hash {
	out := make([]common.Hash, 0, len(f.orphans))
	for h := range f.orphans {
		out = append(out, h)
	}
	return out
}

////////////////////////////////////////////////////////////////////////////
// balance application

func applyBlock(parent *node, vb VerifiedBlock) (map[common.WalletID]uint64, map[common.Hash]struct{}, error) {
	balances := copyBalances(parent.balances)
	committed := copyCommitted(parent.committed)
	attrs := vb.Attrs()

	creditWallet(balances, attrs.Issuer, attrs.Reward)

	for _, vt := range vb.Transactions() {
		hash := vt.Hash()
		if _, dup := committed[hash]; dup {
			return nil, nil, ErrDuplicateTransaction
		}
		total := vt.Amount() + vt.Fee()
		if !canDebit(balances, vt.Sender(), total) {
			return nil, nil, ErrBalanceUnderflow
		}
		debitWallet(balances, vt.Sender(), total)
		creditWallet(balances, vt.Receiver(), vt.Amount())
		creditWallet(balances, attrs.Issuer, vt.Fee())
		committed[hash] = struct{}{}
	}
	return balances, committed, nil
}

func canApplyTx(balances map[common.WalletID]uint64, vt VerifiedTransaction) bool {
	return canDebit(balances, vt.Sender(), vt.Amount()+vt.Fee())
}

// genesisWallet has an unbounded supply (SPEC_FULL.md §3): it is never
// tracked, debits from it always succeed, and credits to it are no-ops.
func isGenesisWallet(w common.WalletID) bool { return w == common.GenesisWalletID() }

func canDebit(balances map[common.WalletID]uint64, w common.WalletID, amount uint64) bool {
	if isGenesisWallet(w) {
		return true
	}
	return balances[w] >= amount
}

func debitWallet(balances map[common.WalletID]uint64, w common.WalletID, amount uint64) {
	if isGenesisWallet(w) {
		return
	}
	balances[w] -= amount
}

func creditWallet(balances map[common.WalletID]uint64, w common.WalletID, amount uint64) {
	if isGenesisWallet(w) || amount == 0 {
		return
	}
	balances[w] += amount
}

func copyBalances(m map[common.WalletID]uint64) map[common.WalletID]uint64 {
	out := make(map[common.WalletID]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyCommitted(m map[common.Hash]struct{}) map[common.Hash]struct{} {
	out := make(map[common.Hash]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
