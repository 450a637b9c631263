// Copyright (c) 2009-2022 The Bitcoin Core developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"go.uber.org/zap"
)

// modifiedEntry tracks a mempool entry whose cached ancestor aggregates have
// gone stale because some of its ancestors were already selected into the
// block.  The aggregates here are the mempool values minus everything in
// block.
type modifiedEntry struct {
	entry                  TxEntry
	sizeWithAncestors      int64
	feesWithAncestors      int64
	sigOpCostWithAncestors int64
	ancestorCount          int
}

func newModifiedEntry(entry TxEntry) *modifiedEntry {
	return &modifiedEntry{
		entry:                  entry,
		sizeWithAncestors:      entry.SizeWithAncestors(),
		feesWithAncestors:      entry.FeesWithAncestors(),
		sigOpCostWithAncestors: entry.SigOpCostWithAncestors(),
		ancestorCount:          entry.AncestorCount(),
	}
}

// subtractAncestor folds the inclusion of one ancestor into the cached
// aggregates.
func (m *modifiedEntry) subtractAncestor(anc TxEntry) {
	m.sizeWithAncestors -= anc.TxSize()
	m.feesWithAncestors -= anc.Fee()
	m.sigOpCostWithAncestors -= anc.SigOpCost()
	m.ancestorCount--
}

// compareAncestorFeerate orders two packages by ancestor feerate, higher
// first, breaking ties by transaction hash so the order is total.  The
// comparison cross-multiplies to avoid division.
func compareAncestorFeerate(aFees, aSize int64, aHash chainhash.Hash,
	bFees, bSize int64, bHash chainhash.Hash) bool {

	f1 := aFees * bSize
	f2 := bFees * aSize
	if f1 != f2 {
		return f1 > f2
	}
	return bytes.Compare(aHash[:], bHash[:]) < 0
}

// bestModified returns the best entry of the modified set under the ancestor
// feerate order, or nil when the set is empty.
func bestModified(mapModifiedTx map[chainhash.Hash]*modifiedEntry) *modifiedEntry {
	var best *modifiedEntry
	var bestHash chainhash.Hash
	for hash, mod := range mapModifiedTx {
		if best == nil || compareAncestorFeerate(
			mod.feesWithAncestors, mod.sizeWithAncestors, hash,
			best.feesWithAncestors, best.sizeWithAncestors, bestHash) {
			best = mod
			bestHash = hash
		}
	}
	return best
}

// testPackage reports whether a package of the given size and sigop cost
// still fits the block under construction.
func (g *BlockAssembler) testPackage(packageSize, packageSigOpsCost int64) bool {
	if g.blockWeight+uint64(packageSize)*WitnessScaleFactor >= uint64(g.options.BlockMaxWeight) {
		return false
	}
	if g.blockSigOpsCost+packageSigOpsCost >= MaxBlockSigOpsCost {
		return false
	}
	return true
}

// testPackageTransactions performs the transaction-level checks on every
// member of a package before it is added: finality against the locktime
// cutoff, premature witness data, and the timestamp limits of the chain.
func (g *BlockAssembler) testPackageTransactions(pkg []TxEntry, nTime uint32) bool {
	now := uint32(g.timeSource.AdjustedTime().Unix())
	for _, entry := range pkg {
		tx := entry.Tx()
		if !chaindata.IsFinalizedTransaction(tx, g.height, g.lockTimeCutoff) {
			return false
		}
		if !g.includeWitness && tx.HasWitness() {
			return false
		}
		// Transactions from the future, relative to the adjusted clock
		// or the block being built, cannot be included.
		if tx.Time > now || (nTime != 0 && tx.Time > nTime) {
			return false
		}
	}
	return true
}

// addToBlock commits one transaction to the template and updates the
// per-build counters.
func (g *BlockAssembler) addToBlock(entry TxEntry) {
	g.template.Block.AddTransaction(entry.Tx())
	g.template.Fees = append(g.template.Fees, entry.Fee())
	g.template.SigOpCosts = append(g.template.SigOpCosts, entry.SigOpCost())
	g.blockWeight += uint64(entry.TxWeight())
	g.blockSigOpsCost += entry.SigOpCost()
	g.fees += entry.Fee()
	g.blockTxCount++
	g.inBlock[entry.TxHash()] = struct{}{}

	if g.options.PrintPriority {
		g.log.Info("added tx to template",
			zap.Int64("feePerKvB", int64(RateOf(entry.Fee(), entry.TxSize()))),
			zap.Stringer("txid", entry.TxHash()))
	}
}

// updatePackagesForAdded folds the inclusion of the added entries into the
// modified set of every in-mempool descendant.  It returns the number of
// descendants touched.
func (g *BlockAssembler) updatePackagesForAdded(added []TxEntry,
	mapModifiedTx map[chainhash.Hash]*modifiedEntry) int {

	descendantsUpdated := 0
	for _, entry := range added {
		for _, desc := range g.source.CalculateDescendants(entry) {
			if _, ok := g.inBlock[desc.TxHash()]; ok {
				continue
			}
			descendantsUpdated++
			mod, ok := mapModifiedTx[desc.TxHash()]
			if !ok {
				mod = newModifiedEntry(desc)
				mapModifiedTx[desc.TxHash()] = mod
			}
			mod.subtractAncestor(entry)
		}
	}
	return descendantsUpdated
}

// sortForBlock orders a package so that every transaction appears after all
// of its package ancestors.  Sorting by ancestor count is sufficient: a
// child always has a strictly larger count than any of its parents.
func sortForBlock(pkg []TxEntry) {
	sort.SliceStable(pkg, func(i, j int) bool {
		if pkg[i].AncestorCount() != pkg[j].AncestorCount() {
			return pkg[i].AncestorCount() < pkg[j].AncestorCount()
		}
		iHash, jHash := pkg[i].TxHash(), pkg[j].TxHash()
		return bytes.Compare(iHash[:], jHash[:]) < 0
	})
}

// addPackageTxs fills the block under construction from the transaction
// source, selecting whole ancestor packages in ancestor-feerate order.
//
// Since transactions are not removed from the source as they are selected,
// the cached ancestor state of a not-yet-selected descendant goes stale the
// moment one of its ancestors enters the block.  Such descendants are
// tracked in mapModifiedTx with locally corrected aggregates, and each
// iteration considers the better of the next sorted source entry and the
// best modified entry.
//
// It returns the number of packages selected and descendants updated.  An
// ErrMempoolInvariant from the source aborts the build: a template must not
// be produced from corrupt aggregates.
func (g *BlockAssembler) addPackageTxs(nTime uint32) (int, int, error) {
	mapModifiedTx := make(map[chainhash.Hash]*modifiedEntry)
	failedTx := make(map[chainhash.Hash]struct{})

	packagesSelected := 0
	descendantsUpdated := 0
	consecutiveFailed := 0

	sorted := g.source.AncestorScoreSorted()
	mi := 0

	for mi < len(sorted) || len(mapModifiedTx) > 0 {
		// Skip source entries already handled one way or another.  An
		// entry present in mapModifiedTx is considered from there
		// instead, since its cached source aggregates are stale.
		if mi < len(sorted) {
			hash := sorted[mi].TxHash()
			_, modified := mapModifiedTx[hash]
			_, added := g.inBlock[hash]
			_, failed := failedTx[hash]
			if modified || added || failed {
				mi++
				continue
			}
		}

		// Decide which package to evaluate next: the best remaining
		// source entry or the best modified entry.
		var entry TxEntry
		usingModified := false
		modBest := bestModified(mapModifiedTx)

		if mi >= len(sorted) {
			entry = modBest.entry
			usingModified = true
		} else {
			entry = sorted[mi]
			if modBest != nil && compareAncestorFeerate(
				modBest.feesWithAncestors, modBest.sizeWithAncestors, modBest.entry.TxHash(),
				entry.FeesWithAncestors(), entry.SizeWithAncestors(), entry.TxHash()) {
				entry = modBest.entry
				usingModified = true
			} else {
				mi++
			}
		}

		packageSize := entry.SizeWithAncestors()
		packageFees := entry.FeesWithAncestors()
		packageSigOps := entry.SigOpCostWithAncestors()
		if usingModified {
			packageSize = modBest.sizeWithAncestors
			packageFees = modBest.feesWithAncestors
			packageSigOps = modBest.sigOpCostWithAncestors
		}

		if packageFees < g.options.BlockMinFeeRate.Fee(packageSize) {
			// Everything else we might consider has a lower feerate:
			// the sorted view and the modified set are both ordered
			// by the same comparator.
			return packagesSelected, descendantsUpdated, nil
		}

		if !g.testPackage(packageSize, packageSigOps) {
			if usingModified {
				// Since we always look at the best entry in the
				// modified set, it must be erased so the next
				// best can be considered; it can never succeed
				// later in this build.
				delete(mapModifiedTx, entry.TxHash())
				failedTx[entry.TxHash()] = struct{}{}
			}

			consecutiveFailed++
			if consecutiveFailed > maxConsecutiveFailures &&
				g.blockWeight > uint64(g.options.BlockMaxWeight)-4000 {
				// Give up if we're close to full and haven't
				// succeeded in a while.
				break
			}
			continue
		}

		ancestors, err := g.source.CalculateAncestors(entry)
		if err != nil {
			g.log.Error("aborting package selection", zap.Error(err))
			return packagesSelected, descendantsUpdated, err
		}

		pkg := make([]TxEntry, 0, len(ancestors)+1)
		for _, anc := range ancestors {
			if _, ok := g.inBlock[anc.TxHash()]; !ok {
				pkg = append(pkg, anc)
			}
		}
		pkg = append(pkg, entry)

		if !g.testPackageTransactions(pkg, nTime) {
			if usingModified {
				delete(mapModifiedTx, entry.TxHash())
				failedTx[entry.TxHash()] = struct{}{}
			}
			continue
		}

		// This package will make it in; reset the failed counter.
		consecutiveFailed = 0

		sortForBlock(pkg)
		for _, member := range pkg {
			g.addToBlock(member)
			delete(mapModifiedTx, member.TxHash())
		}

		packagesSelected++
		descendantsUpdated += g.updatePackagesForAdded(pkg, mapModifiedTx)
	}

	return packagesSelected, descendantsUpdated, nil
}
