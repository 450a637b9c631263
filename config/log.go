// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"github.com/rs/zerolog"
	"gitlab.com/blackcoin/core/blackd/corelog"
	"gitlab.com/blackcoin/core/blackd/node/chaindata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subsystem tags used on the per-unit loggers.
const (
	logUnitCHAN = "CHAN"
	logUnitMINR = "MINR"
	logUnitSTAK = "STAK"
)

// Loggers per subsystem.  A single zap backend is created and all subsystem
// loggers derive from it; the chaindata package consumes a zerolog unit
// logger through its UseLogger hook instead.
var (
	backendLog = corelog.NewZap(zapcore.InfoLevel, "", false)

	// MinerLog is handed to the block assembler.
	MinerLog = backendLog.With(zap.String("app.unit", logUnitMINR))

	// StakerLog is handed to the staking loop and its supervisor.
	StakerLog = backendLog.With(zap.String("app.unit", logUnitSTAK))
)

func init() {
	setLoggers(corelog.DefaultLevel)
}

// setLoggers initializes the package-global logger of every library package
// that logs through a hook.
func setLoggers(level zerolog.Level) {
	chaindata.UseLogger(corelog.New(logUnitCHAN, level, corelog.Config{}.Default()))
}

// SetLogLevels reconfigures every subsystem logger with the passed level and
// optional rolling log file.
func SetLogLevels(logLevel string, file string, disableStdOut bool) {
	zapLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	backendLog = corelog.NewZap(zapLevel, file, disableStdOut)
	MinerLog = backendLog.With(zap.String("app.unit", logUnitMINR))
	StakerLog = backendLog.With(zap.String("app.unit", logUnitSTAK))

	zeroLevel, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		zeroLevel = corelog.DefaultLevel
	}
	setLoggers(zeroLevel)
}
