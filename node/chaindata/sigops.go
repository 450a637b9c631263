// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"gitlab.com/blackcoin/core/blackd/types/wire"
)

// Script opcodes the sigop counter cares about.
const (
	opPushData1           = 0x4c
	opPushData2           = 0x4d
	opPushData4           = 0x4e
	opCheckSig            = 0xac
	opCheckSigVerify      = 0xad
	opCheckMultiSig       = 0xae
	opCheckMultiSigVer    = 0xaf
	maxPubKeysPerMultiSig = 20
)

// countScriptSigOps counts the legacy signature operations in a script.
// Data pushes are skipped so signature bytes can never be miscounted as
// opcodes.  A malformed trailing push terminates the count, matching the
// reference behavior of counting only up to the parse failure.
func countScriptSigOps(script []byte) int {
	numSigOps := 0
	for i := 0; i < len(script); {
		op := script[i]
		switch {
		case op < opPushData1:
			i += 1 + int(op)
		case op == opPushData1:
			if i+1 >= len(script) {
				return numSigOps
			}
			i += 2 + int(script[i+1])
		case op == opPushData2:
			if i+2 >= len(script) {
				return numSigOps
			}
			i += 3 + (int(script[i+1]) | int(script[i+2])<<8)
		case op == opPushData4:
			if i+4 >= len(script) {
				return numSigOps
			}
			i += 5 + (int(script[i+1]) | int(script[i+2])<<8 |
				int(script[i+3])<<16 | int(script[i+4])<<24)
		case op == opCheckSig || op == opCheckSigVerify:
			numSigOps++
			i++
		case op == opCheckMultiSig || op == opCheckMultiSigVer:
			// Legacy counting charges the maximum number of allowed
			// keys for a bare multisig.
			numSigOps += maxPubKeysPerMultiSig
			i++
		default:
			i++
		}
	}
	return numSigOps
}

// CountSigOps counts the legacy signature operations in all input and output
// scripts of the transaction.
func CountSigOps(tx *wire.MsgTx) int {
	numSigOps := 0
	for _, txIn := range tx.TxIn {
		numSigOps += countScriptSigOps(txIn.SignatureScript)
	}
	for _, txOut := range tx.TxOut {
		numSigOps += countScriptSigOps(txOut.PkScript)
	}
	return numSigOps
}
