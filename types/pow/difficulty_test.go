// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
)

func TestCompactToBig(t *testing.T) {
	// Difficulty 1 on the main network.
	want := new(big.Int).Lsh(big.NewInt(0xffff), 208)
	assert.Zero(t, want.Cmp(CompactToBig(0x1d00ffff)))

	// Small exponents shift the mantissa down.
	assert.Zero(t, big.NewInt(0x12).Cmp(CompactToBig(0x01120000)))

	// Zero mantissa.
	assert.Zero(t, big.NewInt(0).Cmp(CompactToBig(0x04000000)))
}

func TestBigToCompactRoundTrip(t *testing.T) {
	for _, compact := range []uint32{0x1d00ffff, 0x1f00ffff, 0x207fffff, 0x1b0404cb} {
		assert.Equal(t, compact, BigToCompact(CompactToBig(compact)))
	}
}

func TestHashToBig(t *testing.T) {
	var hash chainhash.Hash
	hash[0] = 0x01 // little-endian least significant byte

	assert.Zero(t, big.NewInt(1).Cmp(HashToBig(&hash)))

	hash = chainhash.Hash{}
	hash[31] = 0x01 // most significant byte
	want := new(big.Int).Lsh(big.NewInt(1), 248)
	assert.Zero(t, want.Cmp(HashToBig(&hash)))
}

func TestCalcStakeTarget(t *testing.T) {
	// The weighted target scales linearly with the amount.
	base := CompactToBig(0x1d00ffff)
	weighted := CalcStakeTarget(0x1d00ffff, 1000)
	assert.Zero(t, weighted.Cmp(new(big.Int).Mul(base, big.NewInt(1000))))

	// Larger stakes never shrink the target.
	smaller := CalcStakeTarget(0x1d00ffff, 999)
	assert.True(t, smaller.Cmp(weighted) < 0)

	// The product saturates at 2^256-1 instead of growing without bound.
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	saturated := CalcStakeTarget(0x1f00ffff, 1000000000)
	assert.Zero(t, saturated.Cmp(max))
}
