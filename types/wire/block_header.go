// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// blockHeaderLen is the number of bytes a serialized header occupies.
const blockHeaderLen = 80

// BlockHeader defines information about a block.  The layout matches the
// bitcoin header; the interpretation of Bits and Timestamp is shared between
// the proof-of-work fallback and the proof-of-stake kernel.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// PrevBlock is the hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// MerkleRoot is the merkle tree reference to hashes of all transactions
	// in the block.
	MerkleRoot chainhash.Hash

	// Timestamp is the time the block was created, in unix seconds.  For a
	// proof-of-stake block it equals the coinstake timestamp.
	Timestamp uint32

	// Bits is the difficulty target for the block in compact form.
	Bits uint32

	// Nonce is unused on proof-of-stake blocks and kept zero there.
	Nonce uint32
}

// NewBlockHeader returns a new block header with the provided fields.
func NewBlockHeader(version int32, prevHash, merkleRoot *chainhash.Hash,
	timestamp, bits, nonce uint32) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRoot,
		Timestamp:  timestamp,
		Bits:       bits,
		Nonce:      nonce,
	}
}

// BlockHash computes the block identification hash for the header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderLen))
	_ = h.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize encodes the header into w in the wire format.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := WriteElement(w, h.Version); err != nil {
		return err
	}
	if err := WriteElement(w, &h.PrevBlock); err != nil {
		return err
	}
	if err := WriteElement(w, &h.MerkleRoot); err != nil {
		return err
	}
	if err := WriteElement(w, h.Timestamp); err != nil {
		return err
	}
	if err := WriteElement(w, h.Bits); err != nil {
		return err
	}
	return WriteElement(w, h.Nonce)
}

// Deserialize decodes the header from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := ReadElement(r, &h.Version); err != nil {
		return err
	}
	if err := ReadElement(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := ReadElement(r, &h.MerkleRoot); err != nil {
		return err
	}
	if err := ReadElement(r, &h.Timestamp); err != nil {
		return err
	}
	if err := ReadElement(r, &h.Bits); err != nil {
		return err
	}
	return ReadElement(r, &h.Nonce)
}
