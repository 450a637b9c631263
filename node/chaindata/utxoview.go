// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// Coin is a snapshot of one unspent transaction output: the script and value
// together with enough creation metadata to evaluate maturity and the kernel
// protocol.
type Coin struct {
	// PkScript is the public key script of the output.
	PkScript []byte

	// Value is the amount of the output in base units.
	Value int64

	// Height is the height of the block containing the creating
	// transaction.
	Height int32

	// IsCoinBase denotes whether the creating transaction is a coinbase.
	IsCoinBase bool

	// IsCoinStake denotes whether the creating transaction is a coinstake.
	IsCoinStake bool

	// Time is the timestamp of the creating transaction.  Protocol
	// versions that omit transaction timestamps store zero here, in which
	// case consumers substitute the containing block's time.
	Time uint32
}

// UtxoView provides access to unspent transaction outputs.  The concrete
// implementation lives with the chain state; the staking core only reads
// through this capability.
type UtxoView interface {
	// GetCoin returns the unspent output for the given outpoint, or false
	// when the output does not exist or is spent.
	GetCoin(outpoint wire.OutPoint) (Coin, bool)
}

// BlockIndex is the capability the kernel validator needs from a block index
// entry.  The node's index store implements it; tests wire lightweight
// fakes.
type BlockIndex interface {
	// Hash returns the hash of the block.
	Hash() chainhash.Hash

	// Height returns the height of the block in the chain.
	Height() int32

	// Time returns the block timestamp in unix seconds.
	Time() uint32

	// MedianTimePast returns the median timestamp of the previous
	// blocks, per the consensus median window.
	MedianTimePast() int64

	// Ancestor returns the ancestor block index at the provided height,
	// or nil when no such ancestor exists.
	Ancestor(height int32) BlockIndex

	// StakeModifier returns the 256-bit stake modifier recorded for the
	// block.
	StakeModifier() chainhash.Hash
}
