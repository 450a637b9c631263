// Copyright (c) 2009-2022 The Bitcoin Core developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/minio/sha256-simd"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// witnessCommitmentHeader is the required script prefix that identifies the
// coinbase output carrying the witness commitment.
var witnessCommitmentHeader = []byte{0xaa, 0x21, 0xa9, 0xed}

func doubleHashH(b []byte) chainhash.Hash {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// witnessMerkleRoot computes the merkle root over the witness hashes of the
// block's transactions.  The coinbase contributes a zero hash since its own
// witness carries the commitment nonce.
func witnessMerkleRoot(block *wire.MsgBlock) chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(block.Transactions))
	hashes = append(hashes, chainhash.Hash{})
	for _, tx := range block.Transactions[1:] {
		hashes = append(hashes, tx.WitnessHash())
	}
	return chaindata.CalcMerkleRoot(hashes)
}

// GenerateCoinbaseCommitment appends the witness commitment output to the
// block's coinbase and installs the commitment nonce as the coinbase
// witness.  It returns the commitment script bytes.
func GenerateCoinbaseCommitment(block *wire.MsgBlock) []byte {
	if len(block.Transactions) == 0 {
		return nil
	}

	// The coinbase witness is the 32-byte commitment nonce.
	var witnessNonce [chainhash.HashSize]byte
	coinbase := block.Transactions[0]
	coinbase.TxIn[0].Witness = [][]byte{witnessNonce[:]}

	witnessRoot := witnessMerkleRoot(block)

	var preimage [chainhash.HashSize * 2]byte
	copy(preimage[:chainhash.HashSize], witnessRoot[:])
	copy(preimage[chainhash.HashSize:], witnessNonce[:])
	commitment := doubleHashH(preimage[:])

	script := make([]byte, 0, 2+len(witnessCommitmentHeader)+chainhash.HashSize)
	script = append(script, 0x6a, 0x24) // OP_RETURN, push 36 bytes
	script = append(script, witnessCommitmentHeader...)
	script = append(script, commitment[:]...)

	coinbase.AddTxOut(wire.NewTxOut(0, script))
	return script
}

// witnessCommitmentIndex locates the coinbase output carrying the witness
// commitment, or -1 when the coinbase has none.  The last matching output
// wins, per the deployment rules.
func witnessCommitmentIndex(coinbase *wire.MsgTx) int {
	idx := -1
	for i, out := range coinbase.TxOut {
		if len(out.PkScript) >= 38 && out.PkScript[0] == 0x6a &&
			out.PkScript[1] == 0x24 &&
			bytes.Equal(out.PkScript[2:6], witnessCommitmentHeader) {
			idx = i
		}
	}
	return idx
}

// RegenerateCommitments removes the stale witness commitment from the
// block's coinbase, generates a fresh one, and recomputes the merkle root.
// Callers use it after mutating the transaction set of an assembled block.
func RegenerateCommitments(block *wire.MsgBlock) {
	coinbase := block.Transactions[0].Copy()
	if idx := witnessCommitmentIndex(coinbase); idx >= 0 {
		coinbase.TxOut = append(coinbase.TxOut[:idx], coinbase.TxOut[idx+1:]...)
	}
	block.Transactions[0] = coinbase

	GenerateCoinbaseCommitment(block)
	block.Header.MerkleRoot = chaindata.BlockMerkleRoot(block)
}
