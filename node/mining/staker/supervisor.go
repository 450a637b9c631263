// Copyright (c) 2020-2022 The Peercoin developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// enableFlag is the shared switch that keeps the staking loop running.  The
// supervisor clears it to ask the loop to wind down at the next check.
type enableFlag struct {
	v atomic.Bool
}

func (f *enableFlag) set(on bool) { f.v.Store(on) }
func (f *enableFlag) isSet() bool { return f.v.Load() }

// Supervisor owns the staking goroutine of one wallet.  It starts the loop,
// restarts it after unexpected failures, and joins it on shutdown.  The
// zero supervisor is not usable; construct one with NewSupervisor.
type Supervisor struct {
	mtx     sync.Mutex
	staker  *Staker
	log     *zap.Logger
	enabled enableFlag
	wg      sync.WaitGroup
	started bool
}

// NewSupervisor returns a supervisor for the given staker.
func NewSupervisor(staker *Staker, log *zap.Logger) *Supervisor {
	return &Supervisor{
		staker: staker,
		log:    log,
	}
}

// Start launches the staking loop in the background.  Starting is refused
// when staking is disabled by configuration, the wallet cannot sign, or the
// keypool is empty; a refusal is not remembered, so a later Start call runs
// the same checks again.  Calling Start while the loop is already running
// has no effect.
func (s *Supervisor) Start() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.started {
		return
	}

	cfg := &s.staker.cfg
	if !cfg.Staking {
		s.staker.publishAlert(alertDisabled)
		s.log.Info("proof-of-stake minting disabled by configuration")
		return
	}
	if cfg.Wallet.PrivateKeysDisabled() {
		s.log.Info("staking disabled: wallet has private keys disabled")
		return
	}
	if cfg.Wallet.KeyPoolSize() == 0 {
		s.log.Error("keypool is empty, please make sure the wallet " +
			"contains keys and call keypoolrefill before restarting the staker")
		return
	}

	s.enabled.set(true)
	s.started = true
	s.wg.Add(1)
	go s.run()

	s.log.Info("staking supervisor started")
}

// restartDelay is the pause between restarts of a failed staking loop.
const restartDelay = time.Second

// run keeps the staking loop alive until it returns cleanly: a panic or an
// error restarts it, mirroring the behavior of a crashed thread being
// relaunched.  It must be run as a goroutine.
func (s *Supervisor) run() {
	defer s.wg.Done()

	for s.enabled.isSet() {
		if err := s.runOnce(); err == nil {
			break
		}
		if !s.staker.sleep(restartDelay) {
			break
		}
	}
	s.log.Info("staking supervisor stopped")
}

// runOnce executes one life of the staking loop, converting panics into
// errors so the supervisor can restart it.
func (s *Supervisor) runOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("staking loop panicked; restarting",
				zap.Any("panic", r))
			err = errors.Errorf("staking loop panic: %v", r)
		}
	}()

	return s.staker.mint(&s.enabled)
}

// Interrupt asks the staking loop to exit and waits for it.  The loop
// observes the cleared enable flag at its next loop head or interrupted
// sleep.
func (s *Supervisor) Interrupt() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.started {
		return
	}

	s.log.Info("interrupting staking loop")
	s.enabled.set(false)
	s.wg.Wait()
	s.started = false
}

// Stop joins the staking goroutine.  It is safe to call after Interrupt and
// on a supervisor that never started.
func (s *Supervisor) Stop() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.started {
		return
	}

	s.enabled.set(false)
	s.wg.Wait()
	s.started = false
}
