// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// stake-calc is a small debugging tool that evaluates the stake kernel for
// explicit inputs: it prints the proof hash, the weighted target, and
// whether the kernel would be accepted.
package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/urfave/cli/v2"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/types/pow"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

func main() {
	app := &cli.App{
		Name:  "stake-calc",
		Usage: "evaluate a proof-of-stake kernel for explicit inputs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "modifier",
				Usage: "stake modifier as a 64-digit hex hash",
			},
			&cli.StringFlag{
				Name:     "txid",
				Usage:    "prevout transaction id",
				Required: true,
			},
			&cli.UintFlag{
				Name:  "vout",
				Usage: "prevout output index",
			},
			&cli.Uint64Flag{
				Name:     "blockfromtime",
				Usage:    "timestamp of the block containing the staked output",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:     "time",
				Usage:    "candidate coinstake timestamp",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:  "bits",
				Usage: "compact difficulty target",
				Value: 0x1d00ffff,
			},
			&cli.Int64Flag{
				Name:  "amount",
				Usage: "staked amount in base units",
				Value: 1,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	var modifier chainhash.Hash
	if s := ctx.String("modifier"); s != "" {
		h, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return fmt.Errorf("bad modifier: %w", err)
		}
		modifier = *h
	}

	txid, err := chainhash.NewHashFromStr(ctx.String("txid"))
	if err != nil {
		return fmt.Errorf("bad txid: %w", err)
	}

	prevout := wire.OutPoint{Hash: *txid, Index: uint32(ctx.Uint("vout"))}
	blockFromTime := uint32(ctx.Uint64("blockfromtime"))
	nTimeTx := uint32(ctx.Uint64("time"))
	bits := uint32(ctx.Uint64("bits"))
	amount := ctx.Int64("amount")

	proofHash := chaindata.StakeKernelHash(modifier, blockFromTime, prevout, nTimeTx)
	target := pow.CalcStakeTarget(bits, amount)

	fmt.Printf("proof hash:      %s\n", proofHash)
	fmt.Printf("weighted target: %064x\n", target)

	switch {
	case nTimeTx < blockFromTime:
		fmt.Println("result: rejected (nTime violation)")
	case amount <= 0:
		fmt.Println("result: rejected (bad stake amount)")
	case pow.HashToBig(&proofHash).Cmp(target) > 0:
		fmt.Println("result: rejected (proof hash above target)")
	default:
		fmt.Println("result: accepted")
	}

	return nil
}
