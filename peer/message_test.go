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

package peer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/forest"
)

func TestBlockMessageEncodeDecodeRoundTrip(t *testing.T) {
	b := forest.Block{Attrs: forest.BlockAttributes{Index: 7}}
	msg := BlockMessage(b)

	raw, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindBlock, decoded.Kind)
	require.NotNil(t, decoded.Block)
	require.Equal(t, uint64(7), decoded.Block.Attrs.Index)
}

func TestTransactionMessageEncodeDecodeRoundTrip(t *testing.T) {
	tx := forest.Transaction{Amount: 5}
	msg := TransactionMessage(tx)

	raw, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindTransaction, decoded.Kind)
	require.NotNil(t, decoded.Transaction)
	require.Equal(t, uint64(5), decoded.Transaction.Amount)
}

func TestRequestMessageEncodeDecodeRoundTrip(t *testing.T) {
	hash := common.Hash{0x01, 0x02}
	msg := RequestMessage(hash)

	raw, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindRequest, decoded.Kind)
	require.NotNil(t, decoded.BlockHash)
	require.Equal(t, hash, *decoded.BlockHash)
}

func TestDecodeRejectsUnrecognizedKind(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"unknown"}`))
	require.Error(t, err)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeRejectsBlockKindMissingBlockField(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"block"}`))
	require.Error(t, err)
}

func TestDecodeRejectsRequestKindMissingBlockHash(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"request"}`))
	require.Error(t, err)
}
