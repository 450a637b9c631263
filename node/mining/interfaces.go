// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// ErrMempoolInvariant is returned by TxSource implementations when the
// ancestor bookkeeping of an entry is discovered to be inconsistent.  The
// assembler aborts the build and lets the supervisor restart, rather than
// producing a block from corrupt aggregates.
var ErrMempoolInvariant = errors.New("mempool ancestor bookkeeping invariant violated")

// TxEntry is a read-only view of one mempool transaction along with the
// cached aggregates over the entry and all of its unconfirmed ancestors.
// The aggregates are maintained by the mempool; the selection loop corrects
// them locally as ancestors enter the block.
type TxEntry interface {
	// Tx returns the transaction the entry describes.
	Tx() *wire.MsgTx

	// TxHash returns the transaction hash, which identifies the entry.
	TxHash() chainhash.Hash

	// Fee returns the policy-modified fee of the transaction in base
	// units.
	Fee() int64

	// TxSize returns the virtual size of the transaction in vbytes.
	TxSize() int64

	// TxWeight returns the weight of the transaction.
	TxWeight() int64

	// SigOpCost returns the signature operation cost of the transaction.
	SigOpCost() int64

	// SizeWithAncestors returns the virtual size of the entry plus all of
	// its unconfirmed ancestors.
	SizeWithAncestors() int64

	// FeesWithAncestors returns the modified fees of the entry plus all
	// of its unconfirmed ancestors.
	FeesWithAncestors() int64

	// SigOpCostWithAncestors returns the sigop cost of the entry plus all
	// of its unconfirmed ancestors.
	SigOpCostWithAncestors() int64

	// AncestorCount returns the number of unconfirmed ancestors,
	// including the entry itself.
	AncestorCount() int
}

// TxSource represents a source of transactions to consider for inclusion in
// new blocks.  It is a view over the mempool: the interface is consulted
// under the mempool's own lock for the duration of one block build, so the
// returned aggregates are mutually consistent.
type TxSource interface {
	// AncestorScoreSorted returns a snapshot of all entries sorted by
	// ancestor feerate, best first.
	AncestorScoreSorted() []TxEntry

	// CalculateAncestors returns the unconfirmed ancestors of the entry,
	// not including the entry itself.  ErrMempoolInvariant is returned
	// when the mempool's bookkeeping for the entry is inconsistent.
	CalculateAncestors(entry TxEntry) ([]TxEntry, error)

	// CalculateDescendants returns the in-mempool descendants of the
	// entry, not including the entry itself.
	CalculateDescendants(entry TxEntry) []TxEntry

	// LastUpdated returns the last time a transaction was added to or
	// removed from the source.
	LastUpdated() time.Time
}

// ChainState is the view of the active chain the assembler and the staking
// loop consume.  The node's chainstate manager implements it; tests wire
// fakes.
type ChainState interface {
	// Tip returns the index entry of the current best block.
	Tip() chaindata.BlockIndex

	// IsInitialBlockDownload reports whether the node is still catching
	// up to the network tip.
	IsInitialBlockDownload() bool

	// VerificationProgress estimates the fraction of the chain's history
	// that has been verified, in [0, 1].
	VerificationProgress() float64

	// NextTarget returns the compact difficulty target required of the
	// block following prev, for the proof kind requested.
	NextTarget(prev chaindata.BlockIndex, proofOfStake bool) uint32

	// DeploymentActiveAfter reports whether the named softfork deployment
	// is active for blocks following prev.
	DeploymentActiveAfter(prev chaindata.BlockIndex, deployment string) bool

	// ComputeBlockVersion returns the version-bits block version for a
	// block following prev.
	ComputeBlockVersion(prev chaindata.BlockIndex) int32
}

// DeploymentSegwit names the segregated witness deployment for
// ChainState.DeploymentActiveAfter.
const DeploymentSegwit = "segwit"

// MedianTimeSource provides the adjusted clock the assembler stamps blocks
// with.
type MedianTimeSource interface {
	// AdjustedTime returns the current time adjusted by the median time
	// offset of connected peers.
	AdjustedTime() time.Time
}

// StakingWallet is the wallet surface the proof-of-stake path depends on.
// Key management, coin selection for the coinstake, and signing all stay
// behind this capability.
type StakingWallet interface {
	// IsLocked reports whether the wallet is currently locked.
	IsLocked() bool

	// PrivateKeysDisabled reports whether the wallet was created without
	// private keys.  Such wallets can never stake.
	PrivateKeysDisabled() bool

	// KeyPoolSize returns the number of reserve keys available.
	KeyPoolSize() uint32

	// ReserveDestinationScript reserves a destination from the keypool
	// and returns its public key script.
	ReserveDestinationScript() ([]byte, error)

	// AvailableCoinsForStaking lists the outpoints of mature outputs the
	// wallet can currently stake.
	AvailableCoinsForStaking() ([]wire.OutPoint, error)

	// CreateCoinStake searches the wallet's stakeable outputs for a
	// kernel satisfying bits over the given search interval and, on
	// success, returns the signed coinstake paying stake plus reward and
	// the given fees.  found is false when no kernel met the target this
	// tick.
	CreateCoinStake(bits uint32, searchInterval int64, fees int64) (tx *wire.MsgTx, found bool, err error)

	// SignBlock signs the block with the key that owns the coinstake
	// kernel and attaches the signature.
	SignBlock(block *wire.MsgBlock) error

	// AbandonOrphanedCoinstakes releases wallet outputs still marked as
	// spent by coinstakes that never made it into the chain.
	AbandonOrphanedCoinstakes()
}
