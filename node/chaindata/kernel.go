// Copyright (c) 2014-2018 The BlackCoin developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/pow"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// kernelStreamLen is the byte length of the hashed kernel stream: the 32-byte
// stake modifier, three little-endian uint32 fields, and the 32-byte prevout
// txid.
const kernelStreamLen = chainhash.HashSize + 4 + chainhash.HashSize + 4 + 4

// StakeKernelHash computes the proof hash for a kernel candidate.  The
// serialization is consensus-critical: the stake modifier raw bytes, then
// the time of the block containing the staked output, the prevout txid and
// index, and finally the attempt timestamp, all integers little-endian,
// double-SHA-256 hashed.  Any deviation forks the chain.
func StakeKernelHash(stakeModifier chainhash.Hash, blockFromTime uint32,
	prevout wire.OutPoint, nTimeTx uint32) chainhash.Hash {

	var stream [kernelStreamLen]byte
	copy(stream[:32], stakeModifier[:])
	binary.LittleEndian.PutUint32(stream[32:36], blockFromTime)
	copy(stream[36:68], prevout.Hash[:])
	binary.LittleEndian.PutUint32(stream[68:72], prevout.Index)
	binary.LittleEndian.PutUint32(stream[72:76], nTimeTx)

	return doubleHashH(stream[:])
}

// CheckStakeKernelHash checks whether the coinstake kernel defined by the
// prevout meets the stake-weighted target at time nTimeTx.
//
// The kernel (input 0) must satisfy
//
//	hash(nStakeModifier ++ blockFromTime ++ prevout.hash ++ prevout.n ++ nTime) <= bnTarget * nWeight
//
// which makes the chance of finding a coinstake proportional to the amount
// of coins staked.  The stake modifier scrambles the computation so future
// proofs cannot be precomputed at confirmation time; the prevout fields
// reduce the chance of distinct nodes generating identical kernels; block
// and tx hashes are deliberately excluded since they can be ground in vast
// quantities, which would degrade the scheme back to proof-of-work.
//
// The function is pure: it performs no I/O and repeat calls with identical
// inputs return identical outputs.
func CheckStakeKernelHash(prev BlockIndex, bits uint32, blockFromTime uint32,
	amount int64, prevout wire.OutPoint, nTimeTx uint32) (chainhash.Hash, bool) {

	if nTimeTx < blockFromTime { // Transaction timestamp violation
		log.Debug().
			Uint32("nTimeTx", nTimeTx).
			Uint32("blockFromTime", blockFromTime).
			Msg("CheckStakeKernelHash: nTime violation")
		return chainhash.Hash{}, false
	}

	if amount <= 0 {
		log.Debug().Int64("amount", amount).
			Msg("CheckStakeKernelHash: bad stake amount")
		return chainhash.Hash{}, false
	}

	// Weighted target, saturating at 2^256-1.
	target := pow.CalcStakeTarget(bits, amount)

	hashProofOfStake := StakeKernelHash(prev.StakeModifier(), blockFromTime,
		prevout, nTimeTx)

	if pow.HashToBig(&hashProofOfStake).Cmp(target) > 0 {
		return hashProofOfStake, false
	}

	log.Debug().
		Stringer("modifier", prev.StakeModifier()).
		Uint32("blockFromTime", blockFromTime).
		Stringer("prevout", prevout).
		Uint32("nTimeTx", nTimeTx).
		Stringer("hashProof", hashProofOfStake).
		Msg("CheckStakeKernelHash: kernel meets target")

	return hashProofOfStake, true
}

// CheckCoinStakeTimestamp checks whether a coinstake timestamp meets the
// protocol for the block it is embedded in.  Under protocol V2 the
// timestamps must match and be aligned to the stake timestamp mask; before
// V2 only equality is required.
func CheckCoinStakeTimestamp(params *chaincfg.Params, nTimeBlock, nTimeTx int64) bool {
	if params.IsProtocolV2(nTimeBlock) {
		return nTimeBlock == nTimeTx && (nTimeTx&params.StakeTimestampMask) == 0
	}
	return nTimeBlock == nTimeTx
}

// CheckStakeBlockTimestamp is the header-only specialization of
// CheckCoinStakeTimestamp.
func CheckStakeBlockTimestamp(params *chaincfg.Params, nTimeBlock int64) bool {
	return CheckCoinStakeTimestamp(params, nTimeBlock, nTimeBlock)
}

// SignatureVerifier checks that a transaction input correctly spends a coin.
// Script interpretation is owned by the script engine; the consensus core
// consumes it as a capability.
type SignatureVerifier interface {
	// VerifyCoinSpend verifies the signature of input idx of tx against
	// the coin it spends.
	VerifyCoinSpend(coin Coin, tx *wire.MsgTx, idx int) error
}

// CheckProofOfStake validates the coinstake transaction of a block against
// the kernel protocol: the staked output must exist, be mature, be properly
// signed, and its kernel must meet the stake target.  A failure is always
// reported as a RuleError carrying the reject tag and severity; the function
// never panics.
//
// A kernel check failure is reported as the soft header-sync kind since it
// routinely occurs while catching up, before the predecessor stake modifier
// chain is reconstructible.
func CheckProofOfStake(prev BlockIndex, params *chaincfg.Params, tx *wire.MsgTx,
	bits uint32, view UtxoView, sigVerifier SignatureVerifier, nTimeTx uint32) error {

	if !tx.IsCoinStake() {
		return ruleError(ResultConsensusInvalid, "non-coinstake",
			fmt.Sprintf("CheckProofOfStake: called on non-coinstake %s", tx.TxHash()))
	}

	// Kernel (input 0) must match the stake hash target per weight (bits).
	txin := tx.TxIn[0]

	coinPrev, ok := view.GetCoin(txin.PreviousOutPoint)
	if !ok {
		return ruleError(ResultInvalidHeader, "stake-prevout-not-exist",
			fmt.Sprintf("CheckProofOfStake: stake prevout does not exist %s",
				txin.PreviousOutPoint))
	}

	// Min age requirement.
	if prev.Height()+1-coinPrev.Height < int32(params.CoinbaseMaturity) {
		return ruleError(ResultInvalidHeader, "stake-prevout-not-mature",
			fmt.Sprintf("CheckProofOfStake: stake prevout is not mature, expecting %d and only matured to %d",
				params.CoinbaseMaturity, prev.Height()+1-coinPrev.Height))
	}

	blockFrom := prev.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		return ruleError(ResultInvalidHeader, "stake-prevout-not-loaded",
			fmt.Sprintf("CheckProofOfStake: block at height %d for prevout can not be loaded",
				coinPrev.Height))
	}

	if err := sigVerifier.VerifyCoinSpend(coinPrev, tx, 0); err != nil {
		return ruleError(ResultInvalidHeader, "stake-verify-signature-failed",
			fmt.Sprintf("CheckProofOfStake: VerifySignature failed on coinstake %s: %v",
				tx.TxHash(), err))
	}

	blockFromTime := coinPrev.Time
	if blockFromTime == 0 {
		blockFromTime = blockFrom.Time()
	}

	if _, ok := CheckStakeKernelHash(prev, bits, blockFromTime,
		coinPrev.Value, txin.PreviousOutPoint, nTimeTx); !ok {
		// May occur during initial download or if behind on block
		// chain sync.
		return ruleError(ResultHeaderSync, "stake-check-kernel-failed",
			fmt.Sprintf("CheckProofOfStake: check kernel failed on coinstake %s",
				tx.TxHash()))
	}

	return nil
}

// CheckKernel performs the uncached kernel check the staking loop uses while
// searching timestamps: the coin must exist, be mature, and its block be
// reachable, and the kernel hash must meet the target.
func CheckKernel(prev BlockIndex, params *chaincfg.Params, bits, nTime uint32,
	prevout wire.OutPoint, view UtxoView) bool {

	coinPrev, ok := view.GetCoin(prevout)
	if !ok {
		return false
	}

	if prev.Height()+1-coinPrev.Height < int32(params.CoinbaseMaturity) {
		log.Debug().Stringer("prevout", prevout).
			Msg("CheckKernel: coin is not mature")
		return false
	}

	blockFrom := prev.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		log.Debug().Int32("height", coinPrev.Height).
			Msg("CheckKernel: could not find block")
		return false
	}

	blockFromTime := coinPrev.Time
	if blockFromTime == 0 {
		blockFromTime = blockFrom.Time()
	}

	_, ok = CheckStakeKernelHash(prev, bits, blockFromTime, coinPrev.Value,
		prevout, nTime)
	return ok
}
