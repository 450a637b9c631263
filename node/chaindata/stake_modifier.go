// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/minio/sha256-simd"
)

// doubleHashH calculates hash(hash(b)) and returns the resulting bytes as a
// chainhash.Hash.
func doubleHashH(b []byte) chainhash.Hash {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// ComputeStakeModifier derives the stake modifier for a block from the
// block's kernel hash and the predecessor's modifier.  The purpose of the
// stake modifier is to prevent a txout owner from computing future
// proof-of-stake generated by that txout at the time of transaction
// confirmation: to meet the kernel protocol, the txout must hash with a
// future stake modifier which is unknowable until the chain reaches it.
//
// The genesis block's modifier is zero.
func ComputeStakeModifier(prev BlockIndex, kernelHash chainhash.Hash) chainhash.Hash {
	if prev == nil {
		return chainhash.Hash{}
	}

	buf := make([]byte, 0, chainhash.HashSize*2)
	buf = append(buf, kernelHash[:]...)
	modifier := prev.StakeModifier()
	buf = append(buf, modifier[:]...)
	return doubleHashH(buf)
}
