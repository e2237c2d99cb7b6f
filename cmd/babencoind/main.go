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

// babencoind wires the block forest, the gossip coordinator, the mining
// engine, and the reference transport into one running node. It is
// deliberately thin: a flag/config-file framework is a non-goal
// (SPEC_FULL.md §1), so startup options are a handful of flags rather
// than a loader.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/babencoin/babencoin/common"
	"github.com/babencoin/babencoin/crypto"
	"github.com/babencoin/babencoin/forest"
	"github.com/babencoin/babencoin/gossip"
	"github.com/babencoin/babencoin/log"
	"github.com/babencoin/babencoin/mining"
	"github.com/babencoin/babencoin/peer"
	"github.com/babencoin/babencoin/transport"
)

var logger = log.NewModuleLogger(log.Cmd)

func main() {
	var (
		listenAddr = flag.String("listen", "127.0.0.1:0", "TCP address to accept peer connections on")
		dialAddrs  = flag.String("dial", "", "comma-separated addresses to dial at startup")
		mine       = flag.Bool("mine", false, "mine blocks against this node's own forest")
		threads    = flag.Int("threads", 0, "mining worker count (0 = runtime.NumCPU())")
		walletHex  = flag.String("wallet", "", "hex-encoded wallet id credited with mining rewards (generated if empty)")
	)
	flag.Parse()

	wallet, err := resolveWallet(*walletHex)
	if err != nil {
		logger.Crit("invalid wallet", "err", err)
	}

	f := forest.New()

	peerEvents := make(chan peer.Event, 256)
	commands := make(chan peer.Command, 256)
	miningInfo := make(chan mining.Info, 1)

	transportCfg := transport.Default()
	transportCfg.ListenAddress = *listenAddr
	if *dialAddrs != "" {
		transportCfg.DialAddresses = strings.Split(*dialAddrs, ",")
	}
	transportSvc := transport.New(transportCfg, peerEvents, commands)

	miningCfg := mining.Default()
	miningCfg.ThreadCount = *threads
	miningCfg.PublicKey = wallet
	engine := mining.New(miningCfg)

	coordinator := gossip.New(f, gossip.Default(), peerEvents, engine.Output(), commands, miningInfo)

	stop := make(chan struct{})
	go coordinator.Run(stop)
	go forwardSnapshots(miningInfo, engine, stop)

	if *mine {
		engine.Start()
		defer engine.Stop()
		logger.Info("mining enabled", "wallet", wallet.Hex(), "threads", *threads)
	}

	go func() {
		if err := transportSvc.Run(stop); err != nil {
			logger.Crit("transport failed to start", "err", err)
		}
	}()

	logger.Info("babencoind started", "listen", *listenAddr, "head", f.HeadHash().Hex())
	awaitShutdown()
	close(stop)
}

// forwardSnapshots feeds the coordinator's best-effort MiningInfo
// publications into the engine. It exists only to adapt a channel the
// coordinator writes into a direct Submit call, keeping both packages
// ignorant of each other's concrete types beyond mining.Info itself.
func forwardSnapshots(in <-chan mining.Info, engine *mining.Engine, stop <-chan struct{}) {
	for {
		select {
		case info := <-in:
			engine.Submit(info)
		case <-stop:
			return
		}
	}
}

// resolveWallet parses a hex wallet id if given, or mints a fresh one.
// Key management is a non-goal: a generated wallet is not persisted
// anywhere, so rewards mined by this node are only spendable for the
// lifetime of the process.
func resolveWallet(hexID string) (common.WalletID, error) {
	if hexID == "" {
		wallet, _, err := crypto.GenerateWallet()
		return wallet, err
	}
	return common.HexToWalletID(hexID)
}

// awaitShutdown blocks until SIGINT or SIGTERM, mirroring the teacher's
// cmd/utils.StartNode shutdown handshake.
func awaitShutdown() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	fmt.Fprintln(os.Stderr, "babencoind: received shutdown signal")
}
