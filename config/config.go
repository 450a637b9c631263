// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"gitlab.com/blackcoin/core/blackd/node/mining"
	"gitlab.com/blackcoin/core/blackd/node/mining/staker"
	"gitlab.com/blackcoin/core/blackd/types/chaincfg"
)

const (
	// coin is the number of base units in one coin, used when parsing
	// money strings.
	coin = 100000000
)

// Config defines the command line options of the staking and block assembly
// surface.  The semantics mirror the reference client: -nostaking is the
// negation of -staking, -blockversion is honored only on networks that mine
// blocks on demand.
type Config struct {
	Staking        bool   `long:"staking" description:"Generate proof-of-stake blocks with the wallet (default on)"`
	NoStaking      bool   `long:"nostaking" description:"Disable proof-of-stake block generation"`
	StakeTimio     int64  `long:"staketimio" description:"Baseline idle period between coinstake searches in milliseconds"`
	BlockMaxWeight uint32 `long:"blockmaxweight" description:"Maximum block weight to be used when creating a block"`
	BlockMinTxFee  string `long:"blockmintxfee" description:"Minimum feerate, in coins per kvB, for transactions to be included in new blocks"`
	BlockVersion   int32  `long:"blockversion" description:"Override the block version used when creating a block (regtest only)"`
	PrintPriority  bool   `long:"printpriority" description:"Log the feerate and txid of every transaction added to a block"`
	RegressionTest bool   `long:"regtest" description:"Use the regression test network"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Staking:        true,
		StakeTimio:     staker.DefaultStakeTimio,
		BlockMaxWeight: mining.DefaultBlockMaxWeight,
		BlockVersion:   -1,
	}
}

// Load parses the command line arguments over the defaults.
func Load(args []string) (Config, error) {
	cfg := Default()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return cfg, err
	}
	if cfg.NoStaking {
		cfg.Staking = false
	}
	return cfg, nil
}

// ChainParams returns the consensus parameters selected by the options.
func (c *Config) ChainParams() *chaincfg.Params {
	if c.RegressionTest {
		return &chaincfg.RegressionNetParams
	}
	return &chaincfg.MainNetParams
}

// ParseMoney converts a decimal coin amount such as "0.01" into base units.
func ParseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty money string")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 8 {
		return 0, fmt.Errorf("money string %q has too many decimal places", s)
	}
	frac += strings.Repeat("0", 8-len(frac))

	wholeUnits := int64(0)
	if whole != "" {
		var err error
		wholeUnits, err = strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid money string %q", s)
		}
	}
	fracUnits, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money string %q", s)
	}
	if wholeUnits < 0 {
		return 0, fmt.Errorf("negative money string %q", s)
	}
	return wholeUnits*coin + fracUnits, nil
}

// MiningOptions converts the options into block assembler options.
func (c *Config) MiningOptions() (mining.Options, error) {
	options := mining.DefaultOptions()
	options.BlockMaxWeight = c.BlockMaxWeight
	options.PrintPriority = c.PrintPriority
	if c.ChainParams().MineBlocksOnDemand {
		options.BlockVersion = c.BlockVersion
	}
	if c.BlockMinTxFee != "" {
		fee, err := ParseMoney(c.BlockMinTxFee)
		if err != nil {
			return options, err
		}
		options.BlockMinFeeRate = mining.FeeRate(fee)
	}
	return options, nil
}

// Usage prints the option help to stderr.
func Usage() {
	cfg := Default()
	parser := flags.NewParser(&cfg, flags.HelpFlag)
	parser.WriteHelp(os.Stderr)
}
