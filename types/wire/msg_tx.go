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

const (
	// MaxTxInSequenceNum is the maximum sequence number a transaction
	// input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.  It is used to mark an outpoint as null.
	MaxPrevOutIndex uint32 = 0xffffffff

	// maxWitnessItemSize is the maximum allowed size for an item within
	// an input's witness data.
	maxWitnessItemSize = 11000
)

// OutPoint defines a transaction input by referencing the output of a
// previous transaction by its hash and index.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	// The resulting string is hash string plus up to 10 digits of index.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = appendUint(buf, o.Index)
	return string(buf)
}

func appendUint(buf []byte, n uint32) []byte {
	if n >= 10 {
		buf = appendUint(buf, n/10)
	}
	return append(buf, byte('0'+n%10))
}

// Less compares two outpoints by (hash, index), giving a total order over
// outpoints.
func (o OutPoint) Less(other OutPoint) bool {
	cmp := bytes.Compare(o.Hash[:], other.Hash[:])
	if cmp != 0 {
		return cmp < 0
	}
	return o.Index < other.Index
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Witness          [][]byte
	Sequence         uint32
}

// NewTxIn returns a new transaction input with the provided previous outpoint
// and signature script with a default sequence of MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// SetEmpty clears the output so it carries no value and no script.  The
// first output of a coinstake transaction is empty by consensus.
func (t *TxOut) SetEmpty() {
	t.Value = 0
	t.PkScript = nil
}

// IsEmpty reports whether the output carries no value and no script.
func (t *TxOut) IsEmpty() bool {
	return t.Value == 0 && len(t.PkScript) == 0
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of PkScript +
	// PkScript bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// MsgTx implements a transaction of the proof-of-stake chain.  Unlike the
// bitcoin layout, every transaction carries an nTime field after the version;
// the kernel protocol hashes it and the staking loop masks it.
type MsgTx struct {
	Version  int32
	Time     uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new tx message with the provided version and timestamp.
func NewMsgTx(version int32, time uint32) *MsgTx {
	return &MsgTx{
		Version: version,
		Time:    time,
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase reports whether the transaction is a coinbase: a single input
// whose previous outpoint is null.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}
	prevOut := &msg.TxIn[0].PreviousOutPoint
	return prevOut.Index == MaxPrevOutIndex && prevOut.Hash == chainhash.Hash{}
}

// IsCoinStake reports whether the transaction is a coinstake: at least one
// real input, and at least two outputs of which the first is empty.
func (msg *MsgTx) IsCoinStake() bool {
	if len(msg.TxIn) == 0 || msg.IsCoinBase() {
		return false
	}
	if len(msg.TxOut) < 2 {
		return false
	}
	return msg.TxOut[0].IsEmpty()
}

// HasWitness reports whether any input carries witness data.
func (msg *MsgTx) HasWitness() bool {
	for _, txIn := range msg.TxIn {
		if len(txIn.Witness) != 0 {
			return true
		}
	}
	return false
}

// TxHash generates the hash for the transaction.  Witness data is never part
// of the transaction hash.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSizeStripped()))
	_ = msg.serialize(buf, false)
	return chainhash.DoubleHashH(buf.Bytes())
}

// WitnessHash generates the hash of the transaction serialized according to
// the witness format.  For transactions without witness data it equals
// TxHash.
func (msg *MsgTx) WitnessHash() chainhash.Hash {
	if !msg.HasWitness() {
		return msg.TxHash()
	}
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.serialize(buf, true)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Copy creates a deep copy of the transaction so the original and the copy
// can be mutated independently.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		Time:     msg.Time,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			Sequence:         oldTxIn.Sequence,
		}
		if len(oldTxIn.SignatureScript) != 0 {
			newTxIn.SignatureScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newTxIn.SignatureScript, oldTxIn.SignatureScript)
		}
		for _, item := range oldTxIn.Witness {
			newItem := make([]byte, len(item))
			copy(newItem, item)
			newTxIn.Witness = append(newTxIn.Witness, newItem)
		}
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	for _, oldTxOut := range msg.TxOut {
		newTxOut := TxOut{Value: oldTxOut.Value}
		if len(oldTxOut.PkScript) != 0 {
			newTxOut.PkScript = make([]byte, len(oldTxOut.PkScript))
			copy(newTxOut.PkScript, oldTxOut.PkScript)
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}

// Serialize encodes the transaction to w, including any witness data.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.serialize(w, true)
}

// SerializeNoWitness encodes the transaction to w omitting witness data.
func (msg *MsgTx) SerializeNoWitness(w io.Writer) error {
	return msg.serialize(w, false)
}

func (msg *MsgTx) serialize(w io.Writer, witness bool) error {
	if err := WriteElement(w, msg.Version); err != nil {
		return err
	}
	if err := WriteElement(w, msg.Time); err != nil {
		return err
	}

	doWitness := witness && msg.HasWitness()
	if doWitness {
		// Marker and flag bytes of the witness encoding.
		if _, err := w.Write([]byte{0x00, 0x01}); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := WriteElement(w, &ti.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := WriteElement(w, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
		if err := WriteElement(w, ti.Sequence); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := WriteElement(w, to.Value); err != nil {
			return err
		}
		if err := WriteVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}

	if doWitness {
		for _, ti := range msg.TxIn {
			if err := WriteVarInt(w, uint64(len(ti.Witness))); err != nil {
				return err
			}
			for _, item := range ti.Witness {
				if err := WriteVarBytes(w, item); err != nil {
					return err
				}
			}
		}
	}

	return WriteElement(w, msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction including witness data.
func (msg *MsgTx) SerializeSize() int {
	return msg.serializeSize(true)
}

// SerializeSizeStripped returns the number of bytes it would take to
// serialize the transaction excluding witness data.
func (msg *MsgTx) SerializeSizeStripped() int {
	return msg.serializeSize(false)
}

func (msg *MsgTx) serializeSize(witness bool) int {
	// Version 4 bytes + Time 4 bytes + LockTime 4 bytes + serialized
	// varint size for the number of transaction inputs and outputs.
	n := 12 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	doWitness := witness && msg.HasWitness()
	if doWitness {
		n += 2
	}

	for _, ti := range msg.TxIn {
		n += ti.SerializeSize()
		if doWitness {
			n += VarIntSerializeSize(uint64(len(ti.Witness)))
			for _, item := range ti.Witness {
				n += VarIntSerializeSize(uint64(len(item))) + len(item)
			}
		}
	}
	for _, to := range msg.TxOut {
		n += to.SerializeSize()
	}

	return n
}
