// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.  This is a helper
// function used to aid in the generation of a merkle tree.
func hashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	// Concatenate the left and right nodes.
	var hash [chainhash.HashSize * 2]byte
	copy(hash[:chainhash.HashSize], left[:])
	copy(hash[chainhash.HashSize:], right[:])

	return doubleHashH(hash[:])
}

// CalcMerkleRoot computes the merkle root over the given leaf hashes.  An
// odd number of nodes at any level is handled by pairing the last node with
// itself, matching the reference chain.
func CalcMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}

	for len(hashes) > 1 {
		next := make([]chainhash.Hash, 0, (len(hashes)+1)/2)
		for i := 0; i < len(hashes); i += 2 {
			j := i + 1
			if j == len(hashes) {
				j = i
			}
			next = append(next, hashMerkleBranches(&hashes[i], &hashes[j]))
		}
		hashes = next
	}

	return hashes[0]
}

// BlockMerkleRoot computes the merkle root of the block's transaction
// hashes.
func BlockMerkleRoot(block *wire.MsgBlock) chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		hashes = append(hashes, tx.TxHash())
	}
	return CalcMerkleRoot(hashes)
}
