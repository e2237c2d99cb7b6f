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

// Package peer holds the types shared between the gossip coordinator and
// the transport layer: session identity, the two event/command channel
// contracts, and the wire message envelope (SPEC_FULL.md §6).
package peer

import (
	"encoding/json"
	"fmt"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/forest"
)

// SessionID identifies one live peer connection. Assigned randomly at
// session admission; collisions are retried against the live registry.
type SessionID uint64

// Kind discriminates a wire message's payload, matching the JSON "kind"
// field verbatim.
type Kind string

const (
	KindBlock       Kind = "block"
	KindTransaction Kind = "transaction"
	KindRequest     Kind = "request"
)

// Message is the raw wire envelope: exactly one of its payload fields is
// set, selected by Kind. It deserializes directly from one NUL-delimited
// JSON object.
type Message struct {
	Kind        Kind               `json:"kind"`
	Block       *forest.Block      `json:"block,omitempty"`
	Transaction *forest.Transaction `json:"transaction,omitempty"`
	BlockHash   *common.Hash       `json:"block_hash,omitempty"`
}

func BlockMessage(b forest.Block) Message {
	return Message{Kind: KindBlock, Block: &b}
}

func TransactionMessage(t forest.Transaction) Message {
	return Message{Kind: KindTransaction, Transaction: &t}
}

func RequestMessage(hash common.Hash) Message {
	return Message{Kind: KindRequest, BlockHash: &hash}
}

// ErrMalformedMessage is returned by Decode for anything that isn't one
// of the three recognized wire shapes.
type ErrMalformedMessage struct {
	Reason string
}

func (e *ErrMalformedMessage) Error() string {
	return fmt.Sprintf("peer: malformed message: %s", e.Reason)
}

// Decode parses one NUL-delimited frame's JSON body and checks it is
// shaped like one of the three recognized kinds. It does not perform
// signature or difficulty verification; that happens once the message
// reaches the forest.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, &ErrMalformedMessage{Reason: err.Error()}
	}
	switch m.Kind {
	case KindBlock:
		if m.Block == nil {
			return Message{}, &ErrMalformedMessage{Reason: "kind=block without a block field"}
		}
	case KindTransaction:
		if m.Transaction == nil {
			return Message{}, &ErrMalformedMessage{Reason: "kind=transaction without a transaction field"}
		}
	case KindRequest:
		if m.BlockHash == nil {
			return Message{}, &ErrMalformedMessage{Reason: "kind=request without a block_hash field"}
		}
	default:
		return Message{}, &ErrMalformedMessage{Reason: "unrecognized kind " + string(m.Kind)}
	}
	return m, nil
}

// Encode serializes m to its JSON wire form. The NUL frame terminator is
// added by the transport writer, not here.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

////////////////////////////////////////////////////////////////////////////
// events / commands exchanged with the transport layer

type EventKind int

const (
	Connected EventKind = iota
	Disconnected
	NewMessage
)

// Event is what the transport layer emits into the gossip coordinator.
// Message is only meaningful when Kind == NewMessage.
type Event struct {
	Session SessionID
	Kind    EventKind
	Message Message
}

type CommandKind int

const (
	SendMessage CommandKind = iota
	Drop
)

// Command is what the gossip coordinator emits back to the transport
// layer. Message is only meaningful when Kind == SendMessage.
type Command struct {
	Session SessionID
	Kind    CommandKind
	Message Message
}
