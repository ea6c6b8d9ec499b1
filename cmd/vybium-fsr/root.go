package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/config"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

// envPrefix prefixes every environment override, e.g. VYBIUM_FSR_N_SPECIAL.
const envPrefix = "VYBIUM_FSR"

type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:               "vybium-fsr",
		Short:             "Fiat-Shamir and Fischlin proofs for Schnorr's protocol over a toy group",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.cfgFile, "config", "c", "", "load configuration from file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	f.String("transform", defaults.Transform, "transform to use: fs or fischlin")
	f.String("backend", defaults.Backend, fmt.Sprintf("oracle backend, one of %s", strings.Join(oracle.Backends(), ", ")))
	f.String("domain", defaults.Domain, "domain separator")
	f.String("sid", defaults.SessionID, "session identifier bound into every proof")
	f.Uint16("rho", defaults.Rho, "number of repetitions")
	f.Uint8("b", defaults.B, "challenge bits per repetition (FS) or predicate bits (Fischlin)")
	f.Uint8("t", defaults.T, "Fischlin search width in bits, 0 derives it from rho and b")
	f.Uint16("kappa", defaults.KappaC, "soundness target in bits")
	f.Uint32("n-special", defaults.NSpecial, "transcripts needed for extraction")
	f.Int("retries", defaults.Retries, "whole-proof attempts of the Fischlin prover")
	f.Uint64("modulus", defaults.Modulus, "toy group modulus")
	f.Uint64("generator", defaults.Generator, "toy group generator")

	root.AddCommand(newProveCmd(a), newVerifyCmd(a), newParamsCmd(a), newBackendsCmd())
	return root
}

// load resolves the configuration from flags, environment, config file and
// defaults, in that order of precedence, and builds the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}
	cfg := config.DefaultConfig()
	if err := a.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	a.cfg = cfg

	logCfg := zap.NewProductionConfig()
	logCfg.Encoding = "console"
	if a.verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log.Named("vybium-fsr")
	a.log.Debug("configuration loaded", zap.Any("config", cfg))
	return nil
}
