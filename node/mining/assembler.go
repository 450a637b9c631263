// Copyright (c) 2009-2022 The Bitcoin Core developers
// Copyright (c) 2020-2022 The Peercoin developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/wire"
	"go.uber.org/zap"
)

// ErrNoCoinStake signals that no kernel satisfying the stake target was
// found for the current search window.  The staking loop treats it as a
// normal idle tick rather than a failure.
var ErrNoCoinStake = errors.New("no coinstake found for the current search window")

// Options control block assembly limits and overrides.
type Options struct {
	// BlockMaxWeight is the maximum weight of an assembled block.  Values
	// outside [MinBlockMaxWeight, DefaultBlockMaxWeight] are clamped.
	BlockMaxWeight uint32

	// BlockMinFeeRate is the feerate a package must clear to be included.
	BlockMinFeeRate FeeRate

	// BlockVersion, when non-negative, overrides the computed block
	// version.  Honored only on networks that mine blocks on demand.
	BlockVersion int32

	// PrintPriority logs the feerate and hash of every transaction added
	// to a template.
	PrintPriority bool

	// TestBlockValidity, when set, is invoked on assembled proof-of-work
	// templates as a final sanity check before they are handed out.
	TestBlockValidity func(block *wire.MsgBlock, prev chaindata.BlockIndex) error
}

// DefaultOptions returns the assembly options used when none are configured.
func DefaultOptions() Options {
	return Options{
		BlockMaxWeight:  DefaultBlockMaxWeight,
		BlockMinFeeRate: DefaultBlockMinTxFeeRate,
		BlockVersion:    -1,
	}
}

// clampOptions limits the weight option to sane bounds.
func clampOptions(options Options) Options {
	if options.BlockMaxWeight < MinBlockMaxWeight {
		options.BlockMaxWeight = MinBlockMaxWeight
	}
	if options.BlockMaxWeight > DefaultBlockMaxWeight {
		options.BlockMaxWeight = DefaultBlockMaxWeight
	}
	return options
}

// BlockAssembler builds block templates over the current chain tip from the
// transaction source.  One assembler serves one staking loop and is not safe
// for concurrent use; the per-build state is reset at the start of every
// CreateNewBlock call.
type BlockAssembler struct {
	chainParams *chaincfg.Params
	chain       ChainState
	source      TxSource
	timeSource  MedianTimeSource
	options     Options
	log         *zap.Logger

	// Search bookkeeping for the proof-of-stake path.  Initialized to the
	// adjusted clock so a restart does not re-search old windows.
	lastCoinStakeSearchTime int64

	// SearchInterval is the width of the last coinstake search window in
	// seconds.  The wallet consults it when scanning kernel candidates.
	SearchInterval int64

	// Per-build state.
	template        *BlockTemplate
	height          int32
	blockWeight     uint64
	blockSigOpsCost int64
	blockTxCount    int
	fees            int64
	inBlock         map[chainhash.Hash]struct{}
	includeWitness  bool
	lockTimeCutoff  int64
}

// NewBlockAssembler returns a block assembler for the given chain view and
// transaction source.  source may be nil, in which case templates carry no
// mempool transactions.
func NewBlockAssembler(params *chaincfg.Params, chain ChainState, source TxSource,
	timeSource MedianTimeSource, options Options, log *zap.Logger) *BlockAssembler {

	return &BlockAssembler{
		chainParams:             params,
		chain:                   chain,
		source:                  source,
		timeSource:              timeSource,
		options:                 clampOptions(options),
		log:                     log,
		lastCoinStakeSearchTime: timeSource.AdjustedTime().Unix(),
	}
}

// resetBlock prepares the per-build counters, reserving room for the
// coinbase transaction.
func (g *BlockAssembler) resetBlock() {
	g.inBlock = make(map[chainhash.Hash]struct{})
	g.blockWeight = coinbaseWeightReserve
	g.blockSigOpsCost = coinbaseSigOpsReserve
	g.includeWitness = false
	g.blockTxCount = 0
	g.fees = 0
}

// LastBlockFees returns the total transaction fees of the most recently
// assembled template.
func (g *BlockAssembler) LastBlockFees() int64 { return g.fees }

// CreateNewBlock assembles a template over the current tip.  With a nil
// wallet the proof-of-work path is taken and the coinbase pays payScript.
// With a wallet, a coinstake is searched for: on success the template is a
// proof-of-stake block whose time equals the coinstake time; when no kernel
// is found for the current window, ErrNoCoinStake is returned.
func (g *BlockAssembler) CreateNewBlock(payScript []byte, wallet StakingWallet) (*BlockTemplate, error) {
	g.resetBlock()

	prev := g.chain.Tip()
	if prev == nil {
		return nil, errors.New("chain has no tip")
	}
	g.height = prev.Height() + 1

	block := &wire.MsgBlock{}
	g.template = &BlockTemplate{
		Block:  block,
		Height: g.height,
		// Slot 0 belongs to the coinbase and is filled in at the end.
		Fees:       []int64{-1},
		SigOpCosts: []int64{-1},
	}
	// Reserve vtx[0] for the coinbase.
	block.Transactions = append(block.Transactions, nil)

	block.Header.Version = g.chain.ComputeBlockVersion(prev)
	if g.chainParams.MineBlocksOnDemand && g.options.BlockVersion >= 0 {
		block.Header.Version = g.options.BlockVersion
	}

	block.Header.Timestamp = uint32(g.timeSource.AdjustedTime().Unix())

	medianTimePast := prev.MedianTimePast()
	if g.chainParams.IsProtocolV3_1(int64(block.Header.Timestamp)) {
		g.lockTimeCutoff = medianTimePast
	} else {
		g.lockTimeCutoff = int64(block.Header.Timestamp)
	}

	// Whether to include witness transactions.  This is only needed in
	// case the witness softfork activation is reverted, since the mempool
	// only admits witness transactions once the deployment is active.
	g.includeWitness = g.chain.DeploymentActiveAfter(prev, DeploymentSegwit)

	packagesSelected, descendantsUpdated := 0, 0
	if g.source != nil {
		var err error
		packagesSelected, descendantsUpdated, err = g.addPackageTxs(block.Header.Timestamp)
		if err != nil {
			return nil, errors.Wrap(err, "package selection failed")
		}
	}

	coinbaseScript := payScript
	coinbaseValue := int64(0)
	coinbaseTime := block.Header.Timestamp

	if wallet == nil {
		// Proof-of-work block.
		block.Header.Bits = g.chain.NextTarget(prev, false)
		coinbaseValue = g.fees + chaindata.GetBlockSubsidy(g.height, g.chainParams)
	} else {
		// Proof-of-stake block: if a coinstake is available, add it at
		// vtx[1] and empty the coinbase.
		wallet.AbandonOrphanedCoinstakes()

		block.Header.Bits = g.chain.NextTarget(prev, true)

		searchTime := int64(block.Header.Timestamp) &^ g.chainParams.StakeTimestampMask
		if searchTime <= g.lastCoinStakeSearchTime {
			return nil, ErrNoCoinStake
		}

		coinStake, found, err := wallet.CreateCoinStake(block.Header.Bits,
			searchTime-g.lastCoinStakeSearchTime, g.fees)
		g.SearchInterval = searchTime - g.lastCoinStakeSearchTime
		g.lastCoinStakeSearchTime = searchTime

		if err != nil {
			return nil, errors.Wrap(err, "coinstake creation failed")
		}
		if !found || int64(coinStake.Time) < medianTimePast+1 {
			// There is no point continuing when the coinstake search
			// came up empty.
			return nil, ErrNoCoinStake
		}

		coinbaseScript = nil
		coinbaseTime = coinStake.Time
		block.Header.Timestamp = coinStake.Time

		block.Transactions = append(block.Transactions, nil)
		copy(block.Transactions[2:], block.Transactions[1:])
		block.Transactions[1] = coinStake
		g.template.Fees = insertAt(g.template.Fees, 1, 0)
		g.template.SigOpCosts = insertAt(g.template.SigOpCosts, 1,
			int64(chaindata.CountSigOps(coinStake))*WitnessScaleFactor)
	}

	coinbase := createCoinbaseTx(g.height, coinbaseTime, coinbaseScript, coinbaseValue)
	block.Transactions[0] = coinbase

	if g.includeWitness {
		g.template.WitnessCommitment = GenerateCoinbaseCommitment(block)
	}
	g.template.Fees[0] = -g.fees

	// Fill in the header.
	block.Header.PrevBlock = prev.Hash()
	blockTime := medianTimePast + 1
	if maxTxTime := GetMaxTransactionTime(block); maxTxTime > blockTime {
		blockTime = maxTxTime
	}
	block.Header.Timestamp = uint32(blockTime)
	if !block.IsProofOfStake() {
		UpdateTime(block, g.chainParams, g.chain, g.timeSource, prev)
	}
	block.Header.Nonce = 0
	block.Header.MerkleRoot = chaindata.BlockMerkleRoot(block)
	g.template.SigOpCosts[0] = int64(chaindata.CountSigOps(coinbase)) * WitnessScaleFactor

	g.log.Info("assembled new block template",
		zap.Int32("height", g.height),
		zap.Uint64("weight", g.blockWeight),
		zap.Int("txs", g.blockTxCount),
		zap.Int64("fees", g.fees),
		zap.Int64("sigops", g.blockSigOpsCost),
		zap.Int("packages", packagesSelected),
		zap.Int("updatedDescendants", descendantsUpdated))

	if !block.IsProofOfStake() && g.options.TestBlockValidity != nil {
		if err := g.options.TestBlockValidity(block, prev); err != nil {
			return nil, errors.Wrap(err, "TestBlockValidity failed")
		}
	}

	return g.template, nil
}

// insertAt inserts v at index i of s.
func insertAt(s []int64, i int, v int64) []int64 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// GetMaxTransactionTime returns the latest transaction timestamp in the
// block.
func GetMaxTransactionTime(block *wire.MsgBlock) int64 {
	maxTime := int64(0)
	for _, tx := range block.Transactions {
		if tx != nil && int64(tx.Time) > maxTime {
			maxTime = int64(tx.Time)
		}
	}
	return maxTime
}

// UpdateTime raises the header timestamp of a proof-of-work block to the
// later of the median-time-past rule and the adjusted clock, and re-derives
// the required target on chains that allow minimum-difficulty blocks.  It
// returns the candidate time minus the old timestamp; the result is negative
// when the header was already ahead and its timestamp was left unchanged.
func UpdateTime(block *wire.MsgBlock, params *chaincfg.Params, chain ChainState,
	timeSource MedianTimeSource, prev chaindata.BlockIndex) int64 {

	oldTime := int64(block.Header.Timestamp)
	newTime := prev.MedianTimePast() + 1
	if now := timeSource.AdjustedTime().Unix(); now > newTime {
		newTime = now
	}

	if oldTime < newTime {
		block.Header.Timestamp = uint32(newTime)
	}

	// Updating time can change work required on testnet:
	if params.PowAllowMinDifficultyBlocks {
		block.Header.Bits = chain.NextTarget(prev, block.IsProofOfStake())
	}

	return newTime - oldTime
}
