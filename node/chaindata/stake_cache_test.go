// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

func TestStakeCachePrime(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, _ := stakeChain(600)
	view := fakeUtxoView{prevout: {Value: 1000000000, Height: 1, Time: 1700000000}}

	cache := NewStakeCache()
	cache.Prime(params, prevout, tip, view)
	require.Equal(t, 1, cache.Len())
	assert.Equal(t, StakeCacheEntry{BlockFromTime: 1700000000, Amount: 1000000000},
		cache.entries[prevout])

	// Priming again is a no-op.
	cache.Prime(params, prevout, tip, view)
	assert.Equal(t, 1, cache.Len())

	// Unknown and immature outpoints are not cached.
	missing := wire.OutPoint{Hash: repeatByteHash(0x22), Index: 1}
	cache.Prime(params, missing, tip, view)
	assert.Equal(t, 1, cache.Len())

	immature := wire.OutPoint{Hash: repeatByteHash(0x33), Index: 0}
	view[immature] = Coin{Value: 5, Height: 550, Time: 1700000000}
	cache.Prime(params, immature, tip, view)
	assert.Equal(t, 1, cache.Len())
}

func TestStakeCachePrimeSubstitutesBlockTime(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, blockFrom := stakeChain(600)
	blockFrom.time = 1234567890
	view := fakeUtxoView{prevout: {Value: 42, Height: 1, Time: 0}}

	cache := NewStakeCache()
	cache.Prime(params, prevout, tip, view)
	require.Equal(t, 1, cache.Len())
	assert.Equal(t, uint32(1234567890), cache.entries[prevout].BlockFromTime)
}

func TestStakeCacheCheckKernel(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, _ := stakeChain(600)
	view := fakeUtxoView{prevout: {Value: 1000000000, Height: 1, Time: 1700000000}}

	cache := NewStakeCache()
	cache.Prime(params, prevout, tip, view)

	// A cached hit agrees with the uncached check.
	assert.True(t, cache.CheckKernel(tip, params, 0x1f00ffff, 1700000016, prevout, view))
	assert.True(t, CheckKernel(tip, params, 0x1f00ffff, 1700000016, prevout, view))

	// A kernel the uncached path rejects is rejected from the cache too.
	assert.False(t, cache.CheckKernel(tip, params, 0x1d00ffff, 1700000016, prevout, view))

	// Uncached outpoints fall through to the uncached check.
	uncached := wire.OutPoint{Hash: repeatByteHash(0x44), Index: 0}
	view[uncached] = Coin{Value: 1000000000, Height: 1, Time: 1700000000}
	assert.True(t, cache.CheckKernel(tip, params, 0x1f00ffff, 1700000016, uncached, view))
}

func TestStakeCacheStaleEntryCannotFalsePositive(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, _ := stakeChain(600)
	view := fakeUtxoView{prevout: {Value: 1000000000, Height: 1, Time: 1700000000}}

	cache := NewStakeCache()
	cache.Prime(params, prevout, tip, view)

	// The coin disappears from the live view, as after a reorg spent it.
	// The cached entry alone would pass; the mandatory re-verification
	// against the view must reject.
	delete(view, prevout)
	assert.False(t, cache.CheckKernel(tip, params, 0x1f00ffff, 1700000016, prevout, view))
}

func TestStakeCacheDroppedOnReorg(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, _ := stakeChain(600)
	view := fakeUtxoView{prevout: {Value: 1000000000, Height: 1, Time: 1700000000}}

	cache := NewStakeCache()
	cache.Prime(params, prevout, tip, view)
	require.Equal(t, 1, cache.Len())

	// Advancing the tip keeps the entries.
	child := &fakeBlockIndex{
		hash:   repeatByteHash(0xcd),
		height: 601,
		time:   1700000100,
		parent: tip,
	}
	cache.Prime(params, prevout, child, view)
	assert.Equal(t, 1, cache.Len())

	// A tip that does not descend from the recorded one drops everything.
	fork := &fakeBlockIndex{
		hash:   repeatByteHash(0xef),
		height: 601,
		time:   1700000100,
		parent: &fakeBlockIndex{hash: repeatByteHash(0xee), height: 600},
	}
	cache.advance(fork)
	assert.Equal(t, 0, cache.Len())
}
