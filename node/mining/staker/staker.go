// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020-2022 The Peercoin developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staker

import (
	"math"
	"math/rand"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"gitlab.com/blackcoin/core/blackd/node/mining"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
	"gitlab.com/blackcoin/core/blackd/types/wire"
	"go.uber.org/zap"
)

const (
	// lockedWalletPollInterval is how often a locked wallet is re-checked.
	lockedWalletPollInterval = 5 * time.Second

	// networkPollInterval is how often connectivity and sync progress are
	// re-checked while waiting to stake.
	networkPollInterval = 10 * time.Second

	// minVerificationProgress is the chain verification progress required
	// before staking starts.
	minVerificationProgress = 0.996

	// DefaultStakeTimio is the default baseline of the idle period between
	// coinstake searches, in milliseconds.
	DefaultStakeTimio = 500
)

// Alert strings published through the UI port while staking is suspended.
const (
	alertLockedWallet  = "Info: Staking suspended due to locked wallet"
	alertSynchronizing = "Info: Staking suspended while synchronizing wallet"
	alertDisabled      = "Info: Staking disabled by 'nostaking' option"
	alertBlockFailure  = "Info: Staking suspended due to block creation failure"
)

// Config is a descriptor containing the staker configuration.
type Config struct {
	// ChainParams identifies which chain parameters the staker is
	// associated with.
	ChainParams *chaincfg.Params

	// Chain is the view of the active chain templates are built against.
	Chain mining.ChainState

	// TimeSource provides the adjusted clock.
	TimeSource mining.MedianTimeSource

	// View provides access to the UTXO set for the pre-submission
	// proof-of-stake self check.
	View chaindata.UtxoView

	// SigVerifier checks coinstake signatures during the self check.
	SigVerifier chaindata.SignatureVerifier

	// TxSource is the mempool view used to fill blocks.  It may be nil.
	TxSource mining.TxSource

	// Wallet owns the stakeable outputs, builds coinstakes, and signs
	// found blocks.
	Wallet mining.StakingWallet

	// ProcessBlock submits a found block to the node's block processing
	// pipeline, which validates and relays it like any block received
	// from the network.
	ProcessBlock func(block *wire.MsgBlock, forceProcessing, minedByUs bool) (bool, error)

	// ConnectedCount returns how many peers the node is connected to.
	// There is no point staking with nobody to relay found blocks to.
	ConnectedCount func() int32

	// Sleep pauses the staking thread for the given duration.  It returns
	// false when the wait was interrupted by shutdown, in which case the
	// staker exits immediately.
	Sleep func(time.Duration) bool

	// PublishAlert pushes a user-visible status string through the UI
	// port.  Publishing the empty string clears the alert.
	PublishAlert func(string)

	// Staking reflects the -staking option.  When false the staker
	// publishes a disabled alert and never starts.
	Staking bool

	// StakeTimioBase is the baseline of the idle period between coinstake
	// searches, in milliseconds.
	StakeTimioBase int64

	// AssemblerOptions configure the block assembler.
	AssemblerOptions mining.Options
}

// Staker drives the proof-of-stake block production loop for one wallet.
// All work happens on the single goroutine owned by the Supervisor; the
// exported methods only observe state.
type Staker struct {
	cfg       Config
	generator *mining.BlockAssembler
	log       *zap.Logger

	// alert is the last published alert string, tracked so transient
	// suspension messages are cleared once staking resumes.
	alert string

	// extraNonce bookkeeping for the coinbase of repeated builds over the
	// same tip.
	extraNonce   uint64
	lastPrevHash chainhash.Hash
}

// New returns a staker for the provided configuration.  Use a Supervisor to
// run it.
func New(cfg *Config, log *zap.Logger) *Staker {
	generator := mining.NewBlockAssembler(cfg.ChainParams, cfg.Chain,
		cfg.TxSource, cfg.TimeSource, cfg.AssemblerOptions, log)
	return &Staker{
		cfg:       *cfg,
		generator: generator,
		log:       log,
	}
}

// publishAlert pushes msg through the UI port unless it is already current.
func (s *Staker) publishAlert(msg string) {
	if s.alert == msg {
		return
	}
	s.alert = msg
	if s.cfg.PublishAlert != nil {
		s.cfg.PublishAlert(msg)
	}
}

// sleep pauses for d.  The return mirrors Config.Sleep: false means a
// shutdown interrupted the wait.
func (s *Staker) sleep(d time.Duration) bool {
	return s.cfg.Sleep(d)
}

// stakeTimio computes the idle period between coinstake searches: the
// configured baseline plus 30ms per sqrt of the number of stakeable outputs,
// so large wallets back off the search frequency.
func (s *Staker) stakeTimio() time.Duration {
	base := s.cfg.StakeTimioBase
	if base <= 0 {
		base = DefaultStakeTimio
	}

	coins, err := s.cfg.Wallet.AvailableCoinsForStaking()
	if err != nil {
		s.log.Warn("unable to list stakeable outputs", zap.Error(err))
		return time.Duration(base) * time.Millisecond
	}

	timio := base + int64(30*math.Sqrt(float64(len(coins))))
	s.log.Info("set proof-of-stake timeout",
		zap.Int64("ms", timio), zap.Int("utxos", len(coins)))
	return time.Duration(timio) * time.Millisecond
}

// mint is the staking loop proper.  It runs until staking is disabled, a
// shutdown interrupts one of its sleeps (nil return), or an unrecoverable
// failure occurs (error return, which makes the supervisor restart the
// loop).
func (s *Staker) mint(enabled *enableFlag) error {
	s.log.Info("staker started for proof-of-stake")

	payScript, err := s.cfg.Wallet.ReserveDestinationScript()
	if err != nil {
		return errors.Wrap(err, "keypool ran out, please call keypoolrefill first")
	}

	posTimio := s.stakeTimio()

	for enabled.isSet() {
		// Wait for the wallet to be unlocked.
		for s.cfg.Wallet.IsLocked() {
			if !enabled.isSet() {
				return nil
			}
			s.publishAlert(alertLockedWallet)
			if !s.sleep(lockedWalletPollInterval) {
				return nil
			}
		}

		// Busy-wait for the network to come online so we don't waste
		// time minting on an obsolete chain.
		for s.cfg.ConnectedCount() == 0 || s.cfg.Chain.IsInitialBlockDownload() {
			if !enabled.isSet() {
				return nil
			}
			s.publishAlert(alertSynchronizing)
			if !s.sleep(networkPollInterval) {
				return nil
			}
		}

		for s.cfg.Chain.VerificationProgress() < minVerificationProgress {
			if !enabled.isSet() {
				return nil
			}
			s.log.Debug("staker sleeps while sync in progress",
				zap.Float64("progress", s.cfg.Chain.VerificationProgress()))
			s.publishAlert(alertSynchronizing)
			if !s.sleep(networkPollInterval) {
				return nil
			}
		}

		s.publishAlert("")

		// Create a new block.
		template, err := s.generator.CreateNewBlock(payScript, s.cfg.Wallet)
		switch {
		case errors.Is(err, mining.ErrNoCoinStake):
			if !s.sleep(posTimio) {
				return nil
			}
			continue
		case err != nil:
			s.publishAlert(alertBlockFailure)
			s.log.Error("block creation failure", zap.Error(err))
			if !s.sleep(networkPollInterval) {
				return nil
			}
			return err
		}

		block := template.Block
		if block.Header.PrevBlock != s.lastPrevHash {
			s.extraNonce = 0
			s.lastPrevHash = block.Header.PrevBlock
		}
		s.extraNonce++
		mining.IncrementExtraNonce(block, template.Height, s.extraNonce)

		if block.IsProofOfStake() {
			if err := s.cfg.Wallet.SignBlock(block); err != nil {
				s.log.Error("failed to sign proof-of-stake block", zap.Error(err))
				continue
			}
			s.log.Info("proof-of-stake block found",
				zap.Stringer("hash", block.BlockHash()))
			if s.processBlockFound(block) {
				// Rest after a successful block to avoid an
				// immediate re-stake on the same tip.
				cooldown := time.Duration(16+rand.Int63n(5)) * time.Second
				if !s.sleep(cooldown) {
					return nil
				}
			}
		}

		if !s.sleep(posTimio) {
			return nil
		}
	}

	return nil
}

// processBlockFound submits a freshly minted block after re-validating its
// stake proof against the current tip.  It returns whether the block was
// accepted.
func (s *Staker) processBlockFound(block *wire.MsgBlock) bool {
	s.log.Debug("minted block", zap.String("block", spew.Sdump(block)))

	tip := s.cfg.Chain.Tip()

	// Ensure the block is not stale: the tip may have advanced while the
	// kernel search was running.
	if block.Header.PrevBlock != tip.Hash() {
		s.log.Info("generated block is stale",
			zap.Stringer("hash", block.BlockHash()))
		return false
	}

	coinStake := block.Transactions[1]
	nTimeTx := coinStake.Time
	if nTimeTx == 0 {
		nTimeTx = block.Header.Timestamp
	}
	if err := chaindata.CheckProofOfStake(tip, s.cfg.ChainParams, coinStake,
		block.Header.Bits, s.cfg.View, s.cfg.SigVerifier, nTimeTx); err != nil {
		s.log.Error("proof-of-stake checking failed", zap.Error(err))
		return false
	}

	// Process this block the same as if it were received from another
	// node.
	accepted, err := s.cfg.ProcessBlock(block, true, true)
	if err != nil {
		s.log.Error("block submission failed", zap.Error(err))
		return false
	}
	if !accepted {
		s.log.Info("minted block was not accepted",
			zap.Stringer("hash", block.BlockHash()))
		return false
	}

	reward := int64(0)
	for _, out := range coinStake.TxOut {
		reward += out.Value
	}
	s.log.Info("minted block accepted",
		zap.Stringer("hash", block.BlockHash()),
		zap.Stringer("amount", btcutil.Amount(reward)))
	return true
}
