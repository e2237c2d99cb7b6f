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

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babencoin/babencoin/common"
)

func TestResolveWalletGeneratesWhenEmpty(t *testing.T) {
	w1, err := resolveWallet("")
	require.NoError(t, err)
	w2, err := resolveWallet("")
	require.NoError(t, err)
	require.NotEqual(t, w1, w2, "each generated wallet should be distinct")
}

func TestResolveWalletParsesHex(t *testing.T) {
	want, err := resolveWallet("")
	require.NoError(t, err)

	got, err := resolveWallet(want.Hex())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestResolveWalletRejectsMalformedHex(t *testing.T) {
	_, err := resolveWallet("not-hex")
	require.Error(t, err)
}
