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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashHexRoundTrip(t *testing.T) {
	h := Hash{0x01, 0x02, 0xAB}
	got, err := HexToHash(h.Hex())
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHexToHashRejectsWrongLength(t *testing.T) {
	_, err := HexToHash("0xabcd")
	require.Error(t, err)
}

func TestHashLessOrdersAsBigEndianInteger(t *testing.T) {
	small := Hash{0x00, 0xff}
	big := Hash{0x01, 0x00}
	require.True(t, small.Less(big))
	require.False(t, big.Less(small))
}

func TestHashLessOrEqual(t *testing.T) {
	target := Hash{0x10}
	require.True(t, Hash{0x05}.LessOrEqual(target))
	require.True(t, Hash{0x10}.LessOrEqual(target))
	require.False(t, Hash{0x11}.LessOrEqual(target))
}

func TestHashIsZero(t *testing.T) {
	require.True(t, Hash{}.IsZero())
	require.False(t, (Hash{0x01}).IsZero())
}

func TestHashJSONRoundTrip(t *testing.T) {
	h := Hash{0xde, 0xad, 0xbe, 0xef}
	encoded, err := json.Marshal(h)
	require.NoError(t, err)

	var decoded Hash
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, h, decoded)
}

func TestWalletIDHexRoundTrip(t *testing.T) {
	w := WalletID{0x42}
	got, err := HexToWalletID(w.Hex())
	require.NoError(t, err)
	require.Equal(t, w, got)
}

func TestHexToWalletIDRejectsWrongLength(t *testing.T) {
	_, err := HexToWalletID("0x1234")
	require.Error(t, err)
}

func TestGenesisWalletIDIsStable(t *testing.T) {
	require.Equal(t, GenesisWalletID(), GenesisWalletID())
	require.False(t, GenesisWalletID().Bytes() == nil)
}

func TestTrim0xHandlesBothCasePrefixAndBareHex(t *testing.T) {
	require.Equal(t, "abcd", trim0x("0xabcd"))
	require.Equal(t, "abcd", trim0x("0Xabcd"))
	require.Equal(t, "abcd", trim0x("abcd"))
}
