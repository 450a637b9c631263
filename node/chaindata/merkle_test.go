// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

func TestCalcMerkleRoot(t *testing.T) {
	assert.Equal(t, chainhash.Hash{}, CalcMerkleRoot(nil))

	// A single leaf is its own root.
	leaf := doubleHashH([]byte("leaf"))
	assert.Equal(t, leaf, CalcMerkleRoot([]chainhash.Hash{leaf}))

	// Two leaves hash pairwise.
	leaf2 := doubleHashH([]byte("leaf2"))
	expected := hashMerkleBranches(&leaf, &leaf2)
	assert.Equal(t, expected, CalcMerkleRoot([]chainhash.Hash{leaf, leaf2}))

	// An odd count pairs the trailing leaf with itself.
	leaf3 := doubleHashH([]byte("leaf3"))
	level1 := []chainhash.Hash{
		hashMerkleBranches(&leaf, &leaf2),
		hashMerkleBranches(&leaf3, &leaf3),
	}
	expected = hashMerkleBranches(&level1[0], &level1[1])
	assert.Equal(t, expected, CalcMerkleRoot([]chainhash.Hash{leaf, leaf2, leaf3}))
}

func TestBlockMerkleRootStableUntilTxAdded(t *testing.T) {
	block := &wire.MsgBlock{}
	tx := wire.NewMsgTx(1, 1700000000)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, []byte{0x01}))
	tx.AddTxOut(wire.NewTxOut(50, []byte{0x51}))
	block.AddTransaction(tx)

	root := BlockMerkleRoot(block)
	assert.Equal(t, root, BlockMerkleRoot(block))

	tx2 := wire.NewMsgTx(1, 1700000001)
	tx2.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: repeatByteHash(0x11)}, nil))
	tx2.AddTxOut(wire.NewTxOut(25, []byte{0x52}))
	block.AddTransaction(tx2)

	assert.NotEqual(t, root, BlockMerkleRoot(block))
}

func TestCountSigOps(t *testing.T) {
	tx := wire.NewMsgTx(1, 0)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, nil))

	// A standard P2PKH output contains one OP_CHECKSIG.
	p2pkh := []byte{0x76, 0xa9, 0x14,
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
		0x88, 0xac}
	tx.AddTxOut(wire.NewTxOut(50, p2pkh))
	assert.Equal(t, 1, CountSigOps(tx))

	// A bare multisig is charged the maximum key count.
	tx.AddTxOut(wire.NewTxOut(50, []byte{0x52, 0x52, 0xae}))
	assert.Equal(t, 21, CountSigOps(tx))

	// Pushed data containing opcode bytes is not counted.
	push := []byte{0x03, 0xac, 0xae, 0xad}
	tx.AddTxOut(wire.NewTxOut(50, push))
	assert.Equal(t, 21, CountSigOps(tx))
}

func TestIsFinalizedTransaction(t *testing.T) {
	tx := wire.NewMsgTx(1, 0)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, nil))
	tx.AddTxOut(wire.NewTxOut(50, []byte{0x51}))

	// Zero locktime is always final.
	assert.True(t, IsFinalizedTransaction(tx, 100, 1700000000))

	// Height-based locktime.
	tx.LockTime = 100
	assert.True(t, IsFinalizedTransaction(tx, 101, 1700000000))
	tx.TxIn[0].Sequence = 0
	assert.False(t, IsFinalizedTransaction(tx, 100, 1700000000))

	// Time-based locktime compares against the cutoff.
	tx.LockTime = 1700000000
	assert.True(t, IsFinalizedTransaction(tx, 100, 1700000001))
	assert.False(t, IsFinalizedTransaction(tx, 100, 1700000000))

	// Max sequence opts out of locktime enforcement.
	tx.TxIn[0].Sequence = wire.MaxTxInSequenceNum
	assert.True(t, IsFinalizedTransaction(tx, 100, 1700000000))
}
