// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// BlockTemplate houses a block that has yet to be signed or solved along
// with additional details about the fees and the number of signature
// operations for each transaction in the block.
type BlockTemplate struct {
	// Block is a block that is ready to be sealed.  A proof-of-stake
	// template is complete except for the block signature; a
	// proof-of-work template still needs a satisfying nonce.
	Block *wire.MsgBlock

	// Fees contains the amount of fees each transaction in the generated
	// template pays in base units.  Since the first transaction is the
	// coinbase, the first entry (offset 0) will contain the negative of
	// the sum of the fees of all other transactions.
	Fees []int64

	// SigOpCosts contains the cost of signature operations each
	// transaction in the generated template performs.
	SigOpCosts []int64

	// Height is the height at which the block template connects to the
	// main chain.
	Height int32

	// WitnessCommitment is a commitment to the witness data (if any)
	// within the block.  This field is populated whenever segregated
	// witness is active for the block, whether or not any witness
	// transactions are included.
	WitnessCommitment []byte
}
