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
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rcrowley/go-metrics"
	set "gopkg.in/fatih/set.v0"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/forest"
	"github.com/babencoin/babencoin/log"
	"github.com/babencoin/babencoin/params"
)

var (
	attemptsCounter = metrics.NewRegisteredCounter("mining/attempts", nil)
	minedCounter    = metrics.NewRegisteredCounter("mining/blocks", nil)
)

// Engine is the worker pool described in SPEC_FULL.md §4.3, generalized
// from the teacher's single-agent work.CpuAgent
// (Start/Stop/Work()-channel, a quitCurrentOp channel per round) to a
// pool of N racing workers.
type Engine struct {
	cfg Config

	workCh   chan Info
	outputCh chan forest.VerifiedBlock
	stopCh   chan struct{}
	running  int32

	mu         sync.Mutex
	quitRound  chan struct{}
	alreadyMined *set.Set
	lastPrevHash common.Hash

	logger log.Logger
}

// New builds an Engine that issues mined blocks under cfg.PublicKey.
// Blocks carry no issuer signature (SPEC_FULL.md §3); cfg.PublicKey is
// the wallet credited with the reward, nothing more.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:          cfg,
		workCh:       make(chan Info, 1),
		outputCh:     make(chan forest.VerifiedBlock, 1),
		stopCh:       make(chan struct{}),
		alreadyMined: set.New(),
		logger:       log.NewModuleLogger(log.Mining),
	}
}

// Output is where newly mined blocks are delivered, one per successful
// round. The channel is lossy-tolerant from the caller's point of view:
// a block found by a round that is cancelled while this channel is still
// full is discarded, and a block that loses its reorg race once ingested
// is the gossip coordinator's concern, not this engine's.
func (e *Engine) Output() <-chan forest.VerifiedBlock { return e.outputCh }

// Start launches the engine's dispatch loop.
func (e *Engine) Start() {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		return
	}
	go e.dispatch()
}

// Stop ends the dispatch loop and cancels any in-flight round. Workers
// that already hold a candidate nonce exit on their next check.
func (e *Engine) Stop() {
	if !atomic.CompareAndSwapInt32(&e.running, 1, 0) {
		return
	}
	close(e.stopCh)
}

// Submit publishes a new snapshot. It never blocks: an un-consumed
// snapshot already queued is discarded in favor of the newer one, since
// the snapshot stream is idempotent by construction (SPEC_FULL.md §4.3).
func (e *Engine) Submit(info Info) {
	select {
	case e.workCh <- info:
	default:
		select {
		case <-e.workCh:
		default:
		}
		select {
		case e.workCh <- info:
		default:
		}
	}
}

func (e *Engine) dispatch() {
	for {
		select {
		case info := <-e.workCh:
			e.handle(info)
		case <-e.stopCh:
			e.mu.Lock()
			if e.quitRound != nil {
				close(e.quitRound)
				e.quitRound = nil
			}
			e.mu.Unlock()
			return
		}
	}
}

func (e *Engine) handle(info Info) {
	if info.PrevHash != e.lastPrevHash {
		// Open question resolved (SPEC_FULL.md §4.3): clear already-mined
		// on every head move so a deep reorg cannot permanently wedge a
		// transaction out of consideration.
		e.alreadyMined.Clear()
		e.lastPrevHash = info.PrevHash
	}

	selected := e.selectTransactions(info.Transactions)

	e.mu.Lock()
	if e.quitRound != nil {
		close(e.quitRound)
	}
	if len(selected) == 0 {
		e.quitRound = nil
		e.mu.Unlock()
		return
	}
	quit := make(chan struct{})
	e.quitRound = quit
	e.mu.Unlock()

	go e.runRound(info, selected, quit)
}

// selectTransactions takes the first MaxTxPerBlock transactions of info,
// in order, after filtering out anything this engine has already mined
// into a block under the current head.
func (e *Engine) selectTransactions(txs []forest.VerifiedTransaction) []forest.VerifiedTransaction {
	max := e.cfg.MaxTxPerBlock
	out := make([]forest.VerifiedTransaction, 0, max)
	for _, vt := range txs {
		if len(out) >= max {
			break
		}
		if e.alreadyMined.Has(vt.Hash()) {
			continue
		}
		out = append(out, vt)
	}
	return out
}

func (e *Engine) runRound(info Info, txs []forest.VerifiedTransaction, quit chan struct{}) {
	threadCount := e.cfg.ThreadCount
	if threadCount <= 0 {
		threadCount = runtime.NumCPU()
	}

	rawTxs := make([]forest.Transaction, len(txs))
	for i, vt := range txs {
		rawTxs[i] = vt.Raw()
	}

	found := make(chan forest.VerifiedBlock, 1)
	for i := 0; i < threadCount; i++ {
		go e.worker(info, rawTxs, quit, found)
	}

	select {
	case vb := <-found:
		for _, vt := range txs {
			e.alreadyMined.Add(vt.Hash())
		}
		minedCounter.Inc(1)
		select {
		case e.outputCh <- vb:
		case <-quit:
		}
	case <-quit:
	}
}

// worker repeatedly samples a random nonce, reward, and timestamp until
// it produces a verified block or the round is cancelled. There is no
// cooperative abort beyond the quit channel check: the first worker to
// verify wins outright (SPEC_FULL.md §4.3).
func (e *Engine) worker(info Info, txs []forest.Transaction, quit chan struct{}, found chan<- forest.VerifiedBlock) {
	rng := mathrand.New(mathrand.NewSource(randSeed()))
	for {
		select {
		case <-quit:
			return
		default:
		}

		attemptsCounter.Inc(1)
		b := forest.Block{
			Attrs: forest.BlockAttributes{
				Index:     info.BlockIndex,
				PrevHash:  info.PrevHash,
				MaxHash:   info.MaxHash,
				Nonce:     rng.Uint64(),
				Timestamp: time.Now().UTC(),
				Issuer:    e.cfg.PublicKey,
				Reward:    uint64(rng.Intn(int(params.MaxReward) + 1)),
			},
			Transactions: txs,
		}
		vb, err := b.Verify()
		if err != nil {
			continue
		}
		select {
		case found <- vb:
		default:
		}
		return
	}
}

// randSeed gives each worker goroutine a distinct PRNG stream without
// depending on a shared mutex-guarded source.
func randSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.BigEndian.Uint64(b[:]))
}
