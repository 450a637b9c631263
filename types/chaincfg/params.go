// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"
)

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowLimit is the highest proof of work value a block can
	// have for the main network.  It is the value 2^224 - 1.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network.  It is the value 2^255 - 1.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

// Params defines the consensus parameters the proof-of-stake kernel and the
// block assembler depend on.  Anything the networking or database layers need
// lives with those layers; this struct only carries what the staking core
// consults.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.  It doubles as the easiest allowed proof-of-stake
	// target before weighting.
	PowLimit *big.Int

	// PowLimitBits is the compact representation of PowLimit.
	PowLimitBits uint32

	// CoinbaseMaturity is the number of blocks required before newly mined
	// or minted coins can be spent or staked.
	CoinbaseMaturity uint16

	// StakeTimestampMask restricts coinstake timestamps to multiples of
	// mask+1 seconds under protocol V2.
	StakeTimestampMask int64

	// TargetSpacing is the desired interval between blocks.
	TargetSpacing time.Duration

	// ProtocolV2Time is the unix time at which the V2 stake timestamp
	// rules activate.  Zero means always active.
	ProtocolV2Time int64

	// ProtocolV3_1Time is the unix time at which the locktime cutoff
	// switches to median-time-past.  Zero means always active.
	ProtocolV3_1Time int64

	// PowAllowMinDifficultyBlocks defines whether the network should allow
	// minimum difficulty blocks after enough time has elapsed without
	// finding a block.
	PowAllowMinDifficultyBlocks bool

	// BaseSubsidy is the amount paid by a proof-of-work coinbase before
	// fees, in base units.
	BaseSubsidy int64

	// MineBlocksOnDemand signals the regression-style networks where block
	// versions may be overridden from the command line.
	MineBlocksOnDemand bool
}

// IsProtocolV2 reports whether the V2 stake timestamp rules are in force at
// the given unix time.
func (p *Params) IsProtocolV2(nTime int64) bool {
	return nTime >= p.ProtocolV2Time
}

// IsProtocolV3_1 reports whether transaction finality is evaluated against
// median-time-past at the given unix time.
func (p *Params) IsProtocolV3_1(nTime int64) bool {
	return nTime >= p.ProtocolV3_1Time
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:                        "mainnet",
	PowLimit:                    mainPowLimit,
	PowLimitBits:                0x1d00ffff,
	CoinbaseMaturity:            500,
	StakeTimestampMask:          0xf,
	TargetSpacing:               64 * time.Second,
	ProtocolV2Time:              1407053625,
	ProtocolV3_1Time:            1669420800,
	PowAllowMinDifficultyBlocks: false,
	BaseSubsidy:                 10000e8,
	MineBlocksOnDemand:          false,
}

// RegressionNetParams defines the network parameters for the regression test
// network.  The stake timestamp rules match mainnet so consensus code paths
// are exercised unmodified.
var RegressionNetParams = Params{
	Name:                        "regtest",
	PowLimit:                    regressionPowLimit,
	PowLimitBits:                0x207fffff,
	CoinbaseMaturity:            100,
	StakeTimestampMask:          0xf,
	TargetSpacing:               64 * time.Second,
	ProtocolV2Time:              0,
	ProtocolV3_1Time:            0,
	PowAllowMinDifficultyBlocks: true,
	BaseSubsidy:                 50e8,
	MineBlocksOnDemand:          true,
}
