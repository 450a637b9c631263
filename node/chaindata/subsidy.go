// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
)

// GetBlockSubsidy returns the coinbase reward for a proof-of-work block at
// the given height.  Proof-of-stake rewards are computed by the wallet when
// it builds the coinstake and are not part of this figure.
func GetBlockSubsidy(_ int32, params *chaincfg.Params) int64 {
	return params.BaseSubsidy
}
