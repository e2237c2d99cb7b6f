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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/crypto"
	"github.com/babencoin/babencoin/forest"
)

// easyMaxHash never rejects on difficulty, so a round completes almost
// immediately regardless of which CPU runs the test.
var easyMaxHash = func() common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = 0xff
	}
	return h
}()

func newEngine(t *testing.T) (*Engine, common.WalletID) {
	t.Helper()
	wallet, _, err := crypto.GenerateWallet()
	require.NoError(t, err)
	cfg := Config{ThreadCount: 2, MaxTxPerBlock: 4, PublicKey: wallet}
	return New(cfg), wallet
}

func TestMiningValidity(t *testing.T) {
	e, wallet := newEngine(t)
	e.Start()
	defer e.Stop()

	s, sPriv, err := crypto.GenerateWallet()
	require.NoError(t, err)
	r, _, err := crypto.GenerateWallet()
	require.NoError(t, err)
	tx := forest.Transaction{Sender: s, Receiver: r, Amount: 1}
	tx.Signature = crypto.Sign(sPriv, tx.SigningPayload())
	vt, err := tx.Verify()
	require.NoError(t, err)

	// An empty selection leaves the engine idle, so the snapshot carries
	// one transaction to give the round something to mine.
	e.Submit(Info{BlockIndex: 1, PrevHash: common.Hash{}, MaxHash: easyMaxHash, Transactions: []forest.VerifiedTransaction{vt}})

	select {
	case vb := <-e.Output():
		require.True(t, vb.Hash().LessOrEqual(easyMaxHash))
		require.Equal(t, wallet, vb.Attrs().Issuer)
		require.Equal(t, uint64(1), vb.Attrs().Index)
	case <-time.After(5 * time.Second):
		t.Fatal("engine never produced a block")
	}
}

func TestMiningIncludesPendingTransactions(t *testing.T) {
	e, _ := newEngine(t)
	e.Start()
	defer e.Stop()

	s, sPriv, err := crypto.GenerateWallet()
	require.NoError(t, err)
	r, _, err := crypto.GenerateWallet()
	require.NoError(t, err)

	tx := forest.Transaction{Sender: s, Receiver: r, Amount: 1, Fee: 0, Comment: "x"}
	tx.Signature = crypto.Sign(sPriv, tx.SigningPayload())
	vt, err := tx.Verify()
	require.NoError(t, err)

	e.Submit(Info{
		BlockIndex:   1,
		PrevHash:     common.Hash{},
		MaxHash:      easyMaxHash,
		Transactions: []forest.VerifiedTransaction{vt},
	})

	select {
	case vb := <-e.Output():
		require.Len(t, vb.Transactions(), 1)
		require.Equal(t, vt.Hash(), vb.Transactions()[0].Hash())
	case <-time.After(5 * time.Second):
		t.Fatal("engine never produced a block")
	}
}

func TestMiningIdlesWhenEverythingAlreadyMined(t *testing.T) {
	e, _ := newEngine(t)

	s, sPriv, err := crypto.GenerateWallet()
	require.NoError(t, err)
	r, _, err := crypto.GenerateWallet()
	require.NoError(t, err)
	tx := forest.Transaction{Sender: s, Receiver: r, Amount: 1}
	tx.Signature = crypto.Sign(sPriv, tx.SigningPayload())
	vt, err := tx.Verify()
	require.NoError(t, err)

	e.alreadyMined.Add(vt.Hash())
	selected := e.selectTransactions([]forest.VerifiedTransaction{vt})
	require.Empty(t, selected)
}

func TestAlreadyMinedClearsOnHeadMove(t *testing.T) {
	e, _ := newEngine(t)

	s, sPriv, err := crypto.GenerateWallet()
	require.NoError(t, err)
	r, _, err := crypto.GenerateWallet()
	require.NoError(t, err)
	tx := forest.Transaction{Sender: s, Receiver: r, Amount: 1}
	tx.Signature = crypto.Sign(sPriv, tx.SigningPayload())
	vt, err := tx.Verify()
	require.NoError(t, err)

	e.alreadyMined.Add(vt.Hash())
	e.lastPrevHash = common.Hash{1}

	e.handle(Info{PrevHash: common.Hash{2}, MaxHash: easyMaxHash, Transactions: []forest.VerifiedTransaction{vt}})

	require.False(t, e.alreadyMined.Has(vt.Hash()))
}
