// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

const (
	// MaxBlockWeight defines the maximum block weight consensus permits.
	MaxBlockWeight = 4000000

	// DefaultBlockMaxWeight is the default maximum weight of assembled
	// blocks.  Options above it are clamped down to it.
	DefaultBlockMaxWeight = MaxBlockWeight - 4000

	// MinBlockMaxWeight is the lowest usable block weight limit; it leaves
	// just enough room for the coinbase reservation.  Options below it are
	// clamped up to it.
	MinBlockMaxWeight = 4000

	// MaxBlockSigOpsCost is the maximum signature operation cost consensus
	// permits for a block.
	MaxBlockSigOpsCost = 80000

	// WitnessScaleFactor determines the level of discount witness data
	// receives against base block data.
	WitnessScaleFactor = 4

	// coinbaseWeightReserve is the block weight held back for the coinbase
	// (and coinstake) transactions before package selection starts.
	coinbaseWeightReserve = 4000

	// coinbaseSigOpsReserve is the sigop cost held back for the coinbase
	// transaction.
	coinbaseSigOpsReserve = 400

	// DefaultBlockMinTxFeeRate is the default minimum feerate, in base
	// units per kilo-vbyte, a package must clear to enter a block.
	DefaultBlockMinTxFeeRate FeeRate = 1000

	// maxConsecutiveFailures is how many packages in a row may fail the
	// weight/sigops tests, while the block is nearly full, before the
	// selection loop gives up.
	maxConsecutiveFailures = 1000
)

// FeeRate expresses a fee in base units per kilo-vbyte.
type FeeRate int64

// Fee returns the fee implied by the rate for a transaction or package of
// the given virtual size.
func (r FeeRate) Fee(vsize int64) int64 {
	return int64(r) * vsize / 1000
}

// RateOf returns the feerate implied by paying fee for vsize vbytes.
func RateOf(fee, vsize int64) FeeRate {
	if vsize == 0 {
		return 0
	}
	return FeeRate(fee * 1000 / vsize)
}
