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

package gossip

import (
	"bytes"
	"sort"
	"time"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/forest"
	"github.com/babencoin/babencoin/log"
	"github.com/babencoin/babencoin/mining"
	"github.com/babencoin/babencoin/peer"
)

// Coordinator is the only mutator of the forest and the only producer
// of peer commands and mining snapshots (SPEC_FULL.md §4.2). It is
// driven entirely by Run, selecting over three inputs mirroring the
// teacher's select-over-channels idiom in work/worker.go's update loops.
type Coordinator struct {
	forest *forest.BlockForest

	peerEvents  <-chan peer.Event
	minedBlocks <-chan forest.VerifiedBlock
	commands    chan<- peer.Command
	miningOut   chan<- mining.Info

	cfg      Config
	sessions map[peer.SessionID]*sessionState

	logger log.Logger
}

// New builds a Coordinator. peerEvents and minedBlocks are consumed;
// commands and miningOut are produced. None of the four channels are
// owned by the Coordinator - closing them is the caller's job and, per
// SPEC_FULL.md §7, closing an input channel while Run is still reading
// it is a fatal condition for this goroutine.
func New(
	f *forest.BlockForest,
	cfg Config,
	peerEvents <-chan peer.Event,
	minedBlocks <-chan forest.VerifiedBlock,
	commands chan<- peer.Command,
	miningOut chan<- mining.Info,
) *Coordinator {
	return &Coordinator{
		forest:      f,
		peerEvents:  peerEvents,
		minedBlocks: minedBlocks,
		commands:    commands,
		miningOut:   miningOut,
		cfg:         cfg,
		sessions:    make(map[peer.SessionID]*sessionState),
		logger:      log.NewModuleLogger(log.Gossip),
	}
}

// Run drives the coordinator until stop is closed. It never returns
// otherwise, except by calling log.Crit (which exits the process) if
// one of its input channels is closed out from under it.
func (c *Coordinator) Run(stop <-chan struct{}) {
	var tickerC <-chan time.Time
	if c.cfg.EagerRequestsInterval > 0 {
		ticker := time.NewTicker(c.cfg.EagerRequestsInterval)
		defer ticker.Stop()
		tickerC = ticker.C
	}

	for {
		c.publishSnapshot()

		select {
		case ev, ok := <-c.peerEvents:
			if !ok {
				c.logger.Crit("peer event channel closed")
			}
			c.handlePeerEvent(ev)

		case vb, ok := <-c.minedBlocks:
			if !ok {
				c.logger.Crit("mined block channel closed")
			}
			c.handleMinedBlock(vb)

		case <-tickerC:
			c.handleCatchUpTick()

		case <-stop:
			return
		}
	}
}

// publishSnapshot pushes the current MiningInfo to the mining engine on
// a best-effort basis, per SPEC_FULL.md §4.2 ("before each select wait").
func (c *Coordinator) publishSnapshot() {
	head := c.forest.Head()
	pending := c.forest.PendingTransactions()
	txs := make([]forest.VerifiedTransaction, 0, len(pending))
	for _, vt := range pending {
		txs = append(txs, vt)
	}
	sort.Slice(txs, func(i, j int) bool {
		hi, hj := txs[i].Hash(), txs[j].Hash()
		return bytes.Compare(hi.Bytes(), hj.Bytes()) < 0
	})

	info := mining.Info{
		BlockIndex:   head.Attrs().Index + 1,
		PrevHash:     c.forest.HeadHash(),
		MaxHash:      c.forest.NextMaxHash(),
		Transactions: txs,
	}
	select {
	case c.miningOut <- info:
	default:
	}
}

func (c *Coordinator) handlePeerEvent(ev peer.Event) {
	switch ev.Kind {
	case peer.Connected:
		c.handleConnected(ev.Session)
	case peer.Disconnected:
		delete(c.sessions, ev.Session)
	case peer.NewMessage:
		c.handleNewMessage(ev.Session, ev.Message)
	}
}

// handleConnected lets a new peer catch up without a separate handshake:
// it is sent the current head and every pending transaction.
func (c *Coordinator) handleConnected(session peer.SessionID) {
	state := newSessionState()
	c.sessions[session] = state

	head := c.forest.Head()
	state.markBlockKnown(head.Hash())
	c.send(session, peer.BlockMessage(head.Raw()))

	for hash, vt := range c.forest.PendingTransactions() {
		state.markTxKnown(hash)
		c.send(session, peer.TransactionMessage(vt.Raw()))
	}
}

func (c *Coordinator) handleNewMessage(session peer.SessionID, msg peer.Message) {
	switch msg.Kind {
	case peer.KindBlock:
		c.handleIncomingBlock(session, *msg.Block)
	case peer.KindTransaction:
		c.handleIncomingTransaction(session, *msg.Transaction)
	case peer.KindRequest:
		c.handleRequest(session, *msg.BlockHash)
	}
}

func (c *Coordinator) handleIncomingBlock(session peer.SessionID, b forest.Block) {
	hash := (&b).Hash()
	if state, ok := c.sessions[session]; ok {
		state.markBlockKnown(hash)
	}

	err := c.forest.AddBlock(b)
	switch {
	case err == nil:
		c.broadcastBlock(b, hash)
	case isDeferral(err) || isIgnorable(err):
		// Pending-parent: the catch-up ticker will ask for the ancestor.
		// Duplicate/balance-underflow: nothing more to do.
	default:
		c.logger.Warn("dropping session on structurally invalid block", "session", session, "err", err)
		c.drop(session)
	}
}

func (c *Coordinator) handleIncomingTransaction(session peer.SessionID, tx forest.Transaction) {
	hash := (&tx).Hash()
	if state, ok := c.sessions[session]; ok {
		state.markTxKnown(hash)
	}

	err := c.forest.AddTransaction(tx)
	switch {
	case err == nil:
		c.broadcastTransaction(tx, hash)
	case isIgnorable(err):
		// Duplicate or balance-underflow: silently not admitted.
	default:
		c.logger.Warn("dropping session on structurally invalid transaction", "session", session, "err", err)
		c.drop(session)
	}
}

func (c *Coordinator) handleRequest(session peer.SessionID, hash common.Hash) {
	b, ok := c.forest.FindBlock(hash)
	if !ok {
		return
	}
	c.send(session, peer.BlockMessage(b.Raw()))
}

// handleMinedBlock gives a block mined locally the same fan-out as one
// that arrived over the wire: it is offered to every session that
// doesn't already know it.
func (c *Coordinator) handleMinedBlock(vb forest.VerifiedBlock) {
	b := vb.Raw()
	hash := vb.Hash()
	if err := c.forest.AddBlock(b); err != nil && !isIgnorable(err) && !isDeferral(err) {
		c.logger.Warn("locally mined block rejected", "err", err)
		return
	}
	c.broadcastBlock(b, hash)
}

// broadcastBlock emits SendMessage(b) to every session that has not yet
// seen hash, marking it known before sending so no session can ever
// receive the same block twice across its lifetime (S5 / universal
// property 5).
func (c *Coordinator) broadcastBlock(b forest.Block, hash common.Hash) {
	msg := peer.BlockMessage(b)
	for session, state := range c.sessions {
		if state.knownBlocks.Has(hash) {
			continue
		}
		state.markBlockKnown(hash)
		c.send(session, msg)
	}
}

func (c *Coordinator) broadcastTransaction(tx forest.Transaction, hash common.Hash) {
	msg := peer.TransactionMessage(tx)
	for session, state := range c.sessions {
		if state.knownTxs.Has(hash) {
			continue
		}
		state.markTxKnown(hash)
		c.send(session, msg)
	}
}

// handleCatchUpTick asks every open session for every ancestor an
// orphan is still waiting on.
func (c *Coordinator) handleCatchUpTick() {
	unknown := c.forest.UnknownBlockHashes()
	if len(unknown) == 0 {
		return
	}
	for _, hash := range unknown {
		msg := peer.RequestMessage(hash)
		for session := range c.sessions {
			c.send(session, msg)
		}
	}
}

func (c *Coordinator) send(session peer.SessionID, msg peer.Message) {
	select {
	case c.commands <- peer.Command{Session: session, Kind: peer.SendMessage, Message: msg}:
	default:
		c.logger.Warn("command channel full, dropping send", "session", session)
	}
}

func (c *Coordinator) drop(session peer.SessionID) {
	delete(c.sessions, session)
	select {
	case c.commands <- peer.Command{Session: session, Kind: peer.Drop}:
	default:
	}
}

func isDeferral(err error) bool {
	return err == forest.ErrPendingParent
}

func isIgnorable(err error) bool {
	return err == forest.ErrDuplicateBlock ||
		err == forest.ErrDuplicateTransaction ||
		err == forest.ErrBalanceUnderflow
}
