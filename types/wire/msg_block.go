// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// maxBlockSigLen bounds the block signature appended to proof-of-stake
// blocks.
const maxBlockSigLen = 1024

// MsgBlock implements a block of the proof-of-stake chain.  Beyond the
// bitcoin layout it carries Signature, the staker's signature over the block
// hash, which is non-empty exactly on proof-of-stake blocks.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx

	// Signature is the block signature produced by the wallet key that
	// owns the coinstake kernel.  Empty on proof-of-work blocks.
	Signature []byte
}

// NewMsgBlock returns a new block message with the provided header.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header: *header,
	}
}

// AddTransaction appends a transaction to the block.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// IsProofOfStake reports whether the block is a proof-of-stake block: the
// second transaction is a coinstake.
func (msg *MsgBlock) IsProofOfStake() bool {
	return len(msg.Transactions) > 1 && msg.Transactions[1].IsCoinStake()
}

// BlockHash computes the block identification hash, which is the hash of the
// serialized header only.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Serialize encodes the block to w: header, transactions, and the trailing
// block signature.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return WriteVarBytes(w, msg.Signature)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	n := blockHeaderLen + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(msg.Signature))) + len(msg.Signature)
	return n
}

// SerializeSizeStripped returns the serialized size of the block excluding
// witness data.
func (msg *MsgBlock) SerializeSizeStripped() int {
	n := blockHeaderLen + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSizeStripped()
	}
	n += VarIntSerializeSize(uint64(len(msg.Signature))) + len(msg.Signature)
	return n
}
