// Copyright (c) 2016-2018 The Qtum developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// StakeCacheEntry memoizes the two values of a staked output the timestamp
// search needs on every attempt, so the UTXO set is not consulted once per
// candidate time.
type StakeCacheEntry struct {
	// BlockFromTime is the timestamp hashed into the kernel: the staked
	// output's transaction time, or its block time when the transaction
	// carries none.
	BlockFromTime uint32

	// Amount is the value of the staked output in base units.
	Amount int64
}

// StakeCache memoizes kernel inputs per outpoint.  Entries remain correct
// while the tip they were recorded under stays on the active chain; the
// cache empties itself whenever it observes a tip that does not descend from
// the one it was filled against, so a reorganization can never leave stale
// entries behind.
//
// The cache is owned by the single staking goroutine and is not safe for
// concurrent use.
type StakeCache struct {
	tipHash   chainhash.Hash
	tipHeight int32
	entries   map[wire.OutPoint]StakeCacheEntry
}

// NewStakeCache returns an empty stake cache.
func NewStakeCache() *StakeCache {
	return &StakeCache{
		entries: make(map[wire.OutPoint]StakeCacheEntry),
	}
}

// Len returns the number of cached outpoints.
func (c *StakeCache) Len() int {
	return len(c.entries)
}

// advance re-keys the cache to the given tip.  Entries survive a simple tip
// advance, since the staked outputs they describe are unchanged; any
// regression or fork switch drops them all.
func (c *StakeCache) advance(prev BlockIndex) {
	if prev == nil {
		return
	}
	if c.tipHash == (chainhash.Hash{}) || c.tipHash == prev.Hash() {
		c.tipHash = prev.Hash()
		c.tipHeight = prev.Height()
		return
	}

	ancestor := prev.Ancestor(c.tipHeight)
	if ancestor == nil || ancestor.Hash() != c.tipHash {
		log.Debug().Int("entries", len(c.entries)).
			Msg("stake cache dropped after chain reorganization")
		c.entries = make(map[wire.OutPoint]StakeCacheEntry)
	}
	c.tipHash = prev.Hash()
	c.tipHeight = prev.Height()
}

// Prime inserts the kernel inputs for prevout unless already present.  The
// coin must exist, be mature, and its containing block be reachable from
// prev; outpoints that fail any of these are silently skipped, exactly as an
// uncached check would skip them.
func (c *StakeCache) Prime(params *chaincfg.Params, prevout wire.OutPoint,
	prev BlockIndex, view UtxoView) {

	c.advance(prev)

	if _, ok := c.entries[prevout]; ok {
		// already in cache
		return
	}

	coinPrev, ok := view.GetCoin(prevout)
	if !ok {
		return
	}

	if prev.Height()+1-coinPrev.Height < int32(params.CoinbaseMaturity) {
		return
	}

	blockFrom := prev.Ancestor(coinPrev.Height)
	if blockFrom == nil {
		return
	}

	blockFromTime := coinPrev.Time
	if blockFromTime == 0 {
		blockFromTime = blockFrom.Time()
	}

	c.entries[prevout] = StakeCacheEntry{
		BlockFromTime: blockFromTime,
		Amount:        coinPrev.Value,
	}
}

// CheckKernel checks the kernel for prevout at time nTime, consulting the
// cache first.  A cached hit that meets the target is always re-verified
// through the uncached path against the live UTXO view, so the cache can
// never accept a kernel the uncached check would reject, even after a deep
// reorganization raced the search.
func (c *StakeCache) CheckKernel(prev BlockIndex, params *chaincfg.Params,
	bits, nTime uint32, prevout wire.OutPoint, view UtxoView) bool {

	c.advance(prev)

	entry, ok := c.entries[prevout]
	if !ok {
		// Not found in cache; shouldn't happen during staking since the
		// loop primes every candidate first.
		return CheckKernel(prev, params, bits, nTime, prevout, view)
	}

	if _, ok := CheckStakeKernelHash(prev, bits, entry.BlockFromTime,
		entry.Amount, prevout, nTime); !ok {
		return false
	}

	return CheckKernel(prev, params, bits, nTime, prevout, view)
}
