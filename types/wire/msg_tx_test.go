// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCoinbase() *MsgTx {
	tx := NewMsgTx(1, 1700000000)
	tx.AddTxIn(&TxIn{
		PreviousOutPoint: OutPoint{Index: MaxPrevOutIndex},
		SignatureScript:  []byte{0x51},
		Sequence:         MaxTxInSequenceNum,
	})
	tx.AddTxOut(NewTxOut(50, []byte{0x51}))
	return tx
}

func testCoinStake() *MsgTx {
	tx := NewMsgTx(1, 1700000016)
	tx.AddTxIn(NewTxIn(&OutPoint{Hash: chainhash.Hash{0x11}, Index: 0}, []byte{0x01}))
	tx.AddTxOut(&TxOut{})
	tx.AddTxOut(NewTxOut(1000, []byte{0x51}))
	return tx
}

func TestTxKindDetection(t *testing.T) {
	coinbase := testCoinbase()
	assert.True(t, coinbase.IsCoinBase())
	assert.False(t, coinbase.IsCoinStake())

	coinStake := testCoinStake()
	assert.False(t, coinStake.IsCoinBase())
	assert.True(t, coinStake.IsCoinStake())

	// A coinstake needs the empty marker output.
	noMarker := NewMsgTx(1, 0)
	noMarker.AddTxIn(NewTxIn(&OutPoint{Hash: chainhash.Hash{0x11}}, nil))
	noMarker.AddTxOut(NewTxOut(1, []byte{0x51}))
	noMarker.AddTxOut(NewTxOut(2, []byte{0x51}))
	assert.False(t, noMarker.IsCoinStake())
}

func TestTxHashIgnoresWitness(t *testing.T) {
	tx := testCoinStake()
	hashBefore := tx.TxHash()

	tx.TxIn[0].Witness = [][]byte{{0x01, 0x02}}
	assert.Equal(t, hashBefore, tx.TxHash())
	assert.NotEqual(t, hashBefore, tx.WitnessHash())

	tx.TxIn[0].Witness = nil
	assert.Equal(t, hashBefore, tx.WitnessHash())
}

func TestTxSerializeSize(t *testing.T) {
	tx := testCoinStake()

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	assert.Equal(t, tx.SerializeSize(), buf.Len())
	assert.Equal(t, tx.SerializeSizeStripped(), buf.Len())

	tx.TxIn[0].Witness = [][]byte{{0x01, 0x02, 0x03}}
	buf.Reset()
	require.NoError(t, tx.Serialize(&buf))
	assert.Equal(t, tx.SerializeSize(), buf.Len())
	assert.Less(t, tx.SerializeSizeStripped(), buf.Len())
}

func TestTxCopy(t *testing.T) {
	tx := testCoinStake()
	tx.TxIn[0].Witness = [][]byte{{0xaa}}

	dup := tx.Copy()
	assert.Equal(t, tx.TxHash(), dup.TxHash())

	// Mutating the copy leaves the original untouched.
	dup.TxOut[1].Value = 9999
	dup.TxIn[0].SignatureScript[0] = 0xff
	assert.Equal(t, int64(1000), tx.TxOut[1].Value)
	assert.Equal(t, byte(0x01), tx.TxIn[0].SignatureScript[0])
}

func TestOutPointOrdering(t *testing.T) {
	a := OutPoint{Hash: chainhash.Hash{0x01}, Index: 5}
	b := OutPoint{Hash: chainhash.Hash{0x02}, Index: 0}
	c := OutPoint{Hash: chainhash.Hash{0x01}, Index: 6}

	assert.True(t, a.Less(b))
	assert.True(t, a.Less(c))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestBlockProofOfStake(t *testing.T) {
	block := &MsgBlock{}
	block.AddTransaction(testCoinbase())
	assert.False(t, block.IsProofOfStake())

	block.AddTransaction(testCoinStake())
	assert.True(t, block.IsProofOfStake())
}

func TestBlockSerializeSize(t *testing.T) {
	block := &MsgBlock{}
	block.AddTransaction(testCoinbase())
	block.AddTransaction(testCoinStake())
	block.Signature = []byte{0x30, 0x44}

	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))
	assert.Equal(t, block.SerializeSize(), buf.Len())
}

func TestBlockHeaderRoundTrip(t *testing.T) {
	header := NewBlockHeader(4, &chainhash.Hash{0x01}, &chainhash.Hash{0x02},
		1700000016, 0x1d00ffff, 0)

	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	assert.Equal(t, 80, buf.Len())

	var decoded BlockHeader
	require.NoError(t, decoded.Deserialize(&buf))
	assert.Equal(t, *header, decoded)
	assert.Equal(t, header.BlockHash(), decoded.BlockHash())
}
