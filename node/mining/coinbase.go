// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// scriptNum encodes n in the minimal script number format: little-endian
// with the high bit of the last byte as sign, as the script engine expects
// height pushes to be encoded.
func scriptNum(n int64) []byte {
	if n == 0 {
		return nil
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var out []byte
	for n > 0 {
		out = append(out, byte(n&0xff))
		n >>= 8
	}

	// When the most significant byte already has the high bit set, an
	// additional byte is required to express the sign.
	if out[len(out)-1]&0x80 != 0 {
		extra := byte(0x00)
		if negative {
			extra = 0x80
		}
		out = append(out, extra)
	} else if negative {
		out[len(out)-1] |= 0x80
	}

	return out
}

// standardCoinbaseScript returns the signature script of a coinbase at the
// given height: the serialized height followed by OP_0, which keeps the
// script unique per height as BIP34 requires.
func standardCoinbaseScript(height int32) []byte {
	num := scriptNum(int64(height))
	script := make([]byte, 0, len(num)+2)
	script = append(script, byte(len(num)))
	script = append(script, num...)
	script = append(script, 0x00) // OP_0
	return script
}

// IncrementExtraNonce rewrites the coinbase signature script with the given
// extra nonce while keeping the height push first, and recomputes the merkle
// root.  The staking loop bumps the nonce once per template so repeated
// builds over one tip never produce identical coinbases.
func IncrementExtraNonce(block *wire.MsgBlock, height int32, extraNonce uint64) {
	coinbase := block.Transactions[0].Copy()

	num := scriptNum(int64(height))
	extra := scriptNum(int64(extraNonce))
	script := make([]byte, 0, len(num)+len(extra)+2)
	script = append(script, byte(len(num)))
	script = append(script, num...)
	script = append(script, byte(len(extra)))
	script = append(script, extra...)

	coinbase.TxIn[0].SignatureScript = script
	block.Transactions[0] = coinbase
	block.Header.MerkleRoot = chaindata.BlockMerkleRoot(block)
}

// createCoinbaseTx returns a coinbase transaction for the given height with
// a single null input.  payScript and value describe the single output; an
// empty payScript produces the empty output of a proof-of-stake coinbase.
func createCoinbaseTx(height int32, nTime uint32, payScript []byte, value int64) *wire.MsgTx {
	tx := wire.NewMsgTx(1, nTime)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex},
		SignatureScript:  standardCoinbaseScript(height),
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(value, payScript))
	return tx
}
