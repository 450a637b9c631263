// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// fakeBlockIndex is a minimal in-memory block index used by the kernel
// tests.
type fakeBlockIndex struct {
	hash          chainhash.Hash
	height        int32
	time          uint32
	medianTime    int64
	stakeModifier chainhash.Hash
	parent        *fakeBlockIndex
}

func (f *fakeBlockIndex) Hash() chainhash.Hash          { return f.hash }
func (f *fakeBlockIndex) Height() int32                 { return f.height }
func (f *fakeBlockIndex) Time() uint32                  { return f.time }
func (f *fakeBlockIndex) MedianTimePast() int64         { return f.medianTime }
func (f *fakeBlockIndex) StakeModifier() chainhash.Hash { return f.stakeModifier }

func (f *fakeBlockIndex) Ancestor(height int32) BlockIndex {
	node := f
	for node != nil && node.height > height {
		node = node.parent
	}
	if node == nil || node.height != height {
		return nil
	}
	return node
}

// fakeUtxoView is a map-backed UtxoView.
type fakeUtxoView map[wire.OutPoint]Coin

func (v fakeUtxoView) GetCoin(outpoint wire.OutPoint) (Coin, bool) {
	coin, ok := v[outpoint]
	return coin, ok
}

func newHashFromStr(t *testing.T, s string) chainhash.Hash {
	t.Helper()
	h, err := chainhash.NewHashFromStr(s)
	require.NoError(t, err)
	return *h
}

func repeatByteHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

// Reference vectors computed independently from the consensus
// serialization: modifier ++ blockFromTime ++ txid ++ vout ++ nTimeTx,
// double-SHA-256.
const (
	proofHashVector1 = "7f8e044f3a9c1eb10d74f5834cfe88cdbd43297e11e87432835dc89c1cec9e51"
	proofHashVector2 = "0b18f2028807be55d7b778dda9df617686377caa67ece4f74ee46bdf403bf00a"
	modifier1Hex     = "5aa8dc4a6034c57d7d3a40ef7967715b2e8e589b061d139a1e3974bd8183c7db"
	modifier2Hex     = "49b26a9791b26c4e181fac767f98e4b2521c12c39b4c0f9159a5e5eddfa54d28"
)

func TestStakeKernelHashVector(t *testing.T) {
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}

	got := StakeKernelHash(chainhash.Hash{}, 1700000000, prevout, 1700000016)
	assert.Equal(t, newHashFromStr(t, proofHashVector1), got)

	// Second vector with a non-zero modifier and non-zero output index.
	modifier := newHashFromStr(t, modifier1Hex)
	prevout2 := wire.OutPoint{
		Hash:  newHashFromStr(t, "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100"),
		Index: 7,
	}
	got2 := StakeKernelHash(modifier, 1600000000, prevout2, 1600001600)
	assert.Equal(t, newHashFromStr(t, proofHashVector2), got2)
}

func TestCheckStakeKernelHash(t *testing.T) {
	prev := &fakeBlockIndex{height: 1000}
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}

	t.Run("easiest target with weighted saturation accepts", func(t *testing.T) {
		hash, ok := CheckStakeKernelHash(prev, 0x1f00ffff, 1700000000,
			1000000000, prevout, 1700000016)
		assert.True(t, ok)
		assert.Equal(t, newHashFromStr(t, proofHashVector1), hash)
	})

	t.Run("deterministic", func(t *testing.T) {
		hash1, ok1 := CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			1000000000, prevout, 1700000016)
		hash2, ok2 := CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			1000000000, prevout, 1700000016)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, hash1, hash2)
	})

	t.Run("monotone in amount", func(t *testing.T) {
		// The proof hash for this kernel is a 255-bit value: at
		// difficulty-1 it fails for small amounts and starts passing
		// once the weighted target covers it.  Passing can never turn
		// back into failing as the amount grows.
		_, ok := CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			1000000000, prevout, 1700000016)
		assert.False(t, ok)
		_, ok = CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			2000000000, prevout, 1700000016)
		assert.False(t, ok)
		_, ok = CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			4000000000, prevout, 1700000016)
		assert.True(t, ok)
		_, ok = CheckStakeKernelHash(prev, 0x1d00ffff, 1700000000,
			100000000000, prevout, 1700000016)
		assert.True(t, ok)
	})

	t.Run("temporal violation", func(t *testing.T) {
		_, ok := CheckStakeKernelHash(prev, 0x1f00ffff, 1700000000,
			1000000000, prevout, 1699999999)
		assert.False(t, ok)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, ok := CheckStakeKernelHash(prev, 0x1f00ffff, 1700000000,
			0, prevout, 1700000016)
		assert.False(t, ok)
	})

	t.Run("modifier change flips the hash", func(t *testing.T) {
		flipped := &fakeBlockIndex{stakeModifier: repeatByteHash(0x01)}
		hash, _ := CheckStakeKernelHash(flipped, 0x1f00ffff, 1700000000,
			1000000000, prevout, 1700000016)
		assert.NotEqual(t, newHashFromStr(t, proofHashVector1), hash)
	})
}

func TestComputeStakeModifierChain(t *testing.T) {
	// Genesis has no predecessor and a zero modifier.
	assert.Equal(t, chainhash.Hash{}, ComputeStakeModifier(nil, chainhash.Hash{}))

	kernel1 := doubleHashH([]byte("kernel-one"))
	kernel2 := doubleHashH([]byte("kernel-two"))

	genesis := &fakeBlockIndex{height: 0}
	mod1 := ComputeStakeModifier(genesis, kernel1)
	assert.Equal(t, newHashFromStr(t, modifier1Hex), mod1)

	block1 := &fakeBlockIndex{height: 1, stakeModifier: mod1, parent: genesis}
	mod2 := ComputeStakeModifier(block1, kernel2)
	assert.Equal(t, newHashFromStr(t, modifier2Hex), mod2)
}

func TestCheckCoinStakeTimestamp(t *testing.T) {
	params := &chaincfg.RegressionNetParams

	tests := []struct {
		name       string
		nTimeBlock int64
		nTimeTx    int64
		want       bool
	}{
		{"aligned and equal", 1700000016, 1700000016, true},
		{"aligned but differing", 1700000032, 1700000016, false},
		{"equal but misaligned", 1700000001, 1700000001, false},
		{"zero", 0, 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want,
				CheckCoinStakeTimestamp(params, test.nTimeBlock, test.nTimeTx))
			if test.nTimeBlock == test.nTimeTx {
				assert.Equal(t, test.want,
					CheckStakeBlockTimestamp(params, test.nTimeBlock))
			}
		})
	}

	// Before V2 activation only equality matters.
	preV2 := &chaincfg.Params{StakeTimestampMask: 0xf, ProtocolV2Time: 1 << 62}
	assert.True(t, CheckCoinStakeTimestamp(preV2, 1700000001, 1700000001))
	assert.False(t, CheckCoinStakeTimestamp(preV2, 1700000001, 1700000002))
}

// sigVerifierFunc adapts a function to the SignatureVerifier interface.
type sigVerifierFunc func(coin Coin, tx *wire.MsgTx, idx int) error

func (f sigVerifierFunc) VerifyCoinSpend(coin Coin, tx *wire.MsgTx, idx int) error {
	return f(coin, tx, idx)
}

var sigAlwaysValid = sigVerifierFunc(func(Coin, *wire.MsgTx, int) error { return nil })

// stakeChain builds a two-node chain: an ancestor holding the staked coin
// and a tip at the given height with a zero stake modifier.
func stakeChain(tipHeight int32) (*fakeBlockIndex, *fakeBlockIndex) {
	blockFrom := &fakeBlockIndex{
		hash:   repeatByteHash(0xaa),
		height: 1,
		time:   1700000000,
	}
	tip := &fakeBlockIndex{
		hash:       repeatByteHash(0xbb),
		height:     tipHeight,
		time:       1700000000,
		medianTime: 1699999000,
		parent:     blockFrom,
	}
	return tip, blockFrom
}

// newCoinStakeTx builds the minimal coinstake spending the given outpoint.
func newCoinStakeTx(prevout wire.OutPoint) *wire.MsgTx {
	tx := wire.NewMsgTx(1, 1700000016)
	tx.AddTxIn(wire.NewTxIn(&prevout, []byte{0x01}))
	tx.AddTxOut(&wire.TxOut{})
	tx.AddTxOut(wire.NewTxOut(1000000000, []byte{0x51}))
	return tx
}

func TestCheckProofOfStake(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	coin := Coin{Value: 1000000000, Height: 1, Time: 1700000000}

	tip, _ := stakeChain(600)
	view := fakeUtxoView{prevout: coin}

	t.Run("valid", func(t *testing.T) {
		err := CheckProofOfStake(tip, params, newCoinStakeTx(prevout),
			0x1f00ffff, view, sigAlwaysValid, 1700000016)
		assert.NoError(t, err)
	})

	t.Run("non-coinstake", func(t *testing.T) {
		tx := wire.NewMsgTx(1, 1700000016)
		tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, nil))
		tx.AddTxOut(wire.NewTxOut(50, []byte{0x51}))

		err := CheckProofOfStake(tip, params, tx, 0x1f00ffff, view,
			sigAlwaysValid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultConsensusInvalid, ruleErr.Result)
		assert.Equal(t, "non-coinstake", ruleErr.RejectTag)
		assert.False(t, ruleErr.IsSoft())
	})

	t.Run("missing prevout", func(t *testing.T) {
		err := CheckProofOfStake(tip, params, newCoinStakeTx(prevout),
			0x1f00ffff, fakeUtxoView{}, sigAlwaysValid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultInvalidHeader, ruleErr.Result)
		assert.Equal(t, "stake-prevout-not-exist", ruleErr.RejectTag)
	})

	t.Run("immature prevout", func(t *testing.T) {
		// Tip at height 400: the coin from height 1 has only 400
		// confirmations against a maturity of 500.
		youngTip, _ := stakeChain(400)
		err := CheckProofOfStake(youngTip, params, newCoinStakeTx(prevout),
			0x1f00ffff, view, sigAlwaysValid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultInvalidHeader, ruleErr.Result)
		assert.Equal(t, "stake-prevout-not-mature", ruleErr.RejectTag)
	})

	t.Run("unloadable origin block", func(t *testing.T) {
		orphanTip := &fakeBlockIndex{
			hash:   repeatByteHash(0xcc),
			height: 600,
		}
		err := CheckProofOfStake(orphanTip, params, newCoinStakeTx(prevout),
			0x1f00ffff, view, sigAlwaysValid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultInvalidHeader, ruleErr.Result)
		assert.Equal(t, "stake-prevout-not-loaded", ruleErr.RejectTag)
	})

	t.Run("bad signature", func(t *testing.T) {
		sigInvalid := sigVerifierFunc(func(Coin, *wire.MsgTx, int) error {
			return errors.New("bad signature")
		})
		err := CheckProofOfStake(tip, params, newCoinStakeTx(prevout),
			0x1f00ffff, view, sigInvalid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultInvalidHeader, ruleErr.Result)
		assert.Equal(t, "stake-verify-signature-failed", ruleErr.RejectTag)
	})

	t.Run("kernel failure is soft", func(t *testing.T) {
		// Difficulty-1 target with a 1e9 stake does not cover the
		// 255-bit proof hash of this kernel.
		err := CheckProofOfStake(tip, params, newCoinStakeTx(prevout),
			0x1d00ffff, view, sigAlwaysValid, 1700000016)
		var ruleErr RuleError
		require.ErrorAs(t, err, &ruleErr)
		assert.Equal(t, ResultHeaderSync, ruleErr.Result)
		assert.Equal(t, "stake-check-kernel-failed", ruleErr.RejectTag)
		assert.True(t, ruleErr.IsSoft())
	})
}

func TestCheckKernelSubstitutesBlockTime(t *testing.T) {
	params := &chaincfg.MainNetParams
	prevout := wire.OutPoint{Hash: repeatByteHash(0x11), Index: 0}
	tip, blockFrom := stakeChain(600)

	// The coin carries no transaction time, so the kernel check must fall
	// back to the origin block's timestamp.
	view := fakeUtxoView{prevout: {Value: 1000000000, Height: 1, Time: 0}}
	blockFrom.time = 1700000000

	assert.True(t, CheckKernel(tip, params, 0x1f00ffff, 1700000016, prevout, view))
	assert.False(t, CheckKernel(tip, params, 0x1f00ffff, 1699999999, prevout, view))
}
