// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// LockTimeThreshold is the number below which a transaction locktime is
// interpreted as a block height and at or above which it is interpreted as a
// unix timestamp.
const LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC

// IsFinalizedTransaction determines whether or not a transaction is
// finalized at the given block height and time cutoff.
func IsFinalizedTransaction(tx *wire.MsgTx, blockHeight int32, lockTimeCutoff int64) bool {
	// Lock time of zero means the transaction is finalized.
	lockTime := tx.LockTime
	if lockTime == 0 {
		return true
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if
	// the value is before the LockTimeThreshold.
	blockTimeOrHeight := int64(blockHeight)
	if lockTime >= LockTimeThreshold {
		blockTimeOrHeight = lockTimeCutoff
	}
	if int64(lockTime) < blockTimeOrHeight {
		return true
	}

	// At this point, the transaction's lock time hasn't occurred yet, but
	// the transaction might still be finalized if every input opted out
	// of lock time enforcement.
	for _, txIn := range tx.TxIn {
		if txIn.Sequence != wire.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}
