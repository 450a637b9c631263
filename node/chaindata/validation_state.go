// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import "fmt"

// BlockValidationResult describes how severely a block failed validation and
// therefore how the caller should react to the failure.
type BlockValidationResult uint8

const (
	// ResultUnset means the block has not failed.
	ResultUnset BlockValidationResult = iota

	// ResultConsensusInvalid marks a block that violates consensus rules
	// and must never be retried.
	ResultConsensusInvalid

	// ResultInvalidHeader marks a block whose header or stake proof is
	// invalid against the current view.
	ResultInvalidHeader

	// ResultHeaderSync marks a soft failure: the check could not be
	// completed because required context, such as the predecessor stake
	// modifier, is not available yet.  Peers are not penalized for it.
	ResultHeaderSync
)

// String returns the result kind as a human-readable string.
func (r BlockValidationResult) String() string {
	switch r {
	case ResultUnset:
		return "unset"
	case ResultConsensusInvalid:
		return "consensus-invalid"
	case ResultInvalidHeader:
		return "invalid-header"
	case ResultHeaderSync:
		return "header-sync"
	}
	return fmt.Sprintf("unknown(%d)", uint8(r))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block or transaction failed due to one of the many
// validation rules.  It carries the machine-readable reject tag that is
// relayed to peers and the severity the caller dispatches on.
type RuleError struct {
	Result      BlockValidationResult
	RejectTag   string
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// IsSoft reports whether the failure is the not-yet kind that the header
// sync path defers instead of rejecting.
func (e RuleError) IsSoft() bool {
	return e.Result == ResultHeaderSync
}

// ruleError creates a RuleError given the result kind, reject tag, and
// description.
func ruleError(result BlockValidationResult, tag, desc string) RuleError {
	return RuleError{Result: result, RejectTag: tag, Description: desc}
}
