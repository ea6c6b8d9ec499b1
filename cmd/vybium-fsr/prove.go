package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/sigma/toy"
	vybiumfsr "github.com/vybium/vybium-fsr/pkg/vybium-fsr"
)

func newProveCmd(a *app) *cobra.Command {
	var (
		witness uint64
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Prove knowledge of w with Y = w*G and print the proof as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			g, err := toy.NewGroup(a.cfg.Modulus)
			if err != nil {
				return err
			}
			var rnd io.Reader
			if seed != 0 {
				rnd = rand.New(rand.NewSource(seed))
			}
			p := toy.NewProver(g, a.cfg.Generator, witness, rnd)
			stmt := p.Statement().Bytes(g)
			sid := []byte(a.cfg.SessionID)

			var raw []byte
			switch a.cfg.Transform {
			case metrics.TransformFS:
				rs := make([]uint64, a.cfg.Rho)
				commit := func(i int) ([]byte, error) {
					m, r, err := p.Commit(i)
					rs[i] = r
					return m, err
				}
				respond := func(i int, e []byte) ([]byte, error) {
					return p.Respond(rs[i], e)
				}
				proof, err := vybiumfsr.ProveFS(a.cfg, stmt, sid, commit, respond)
				if err != nil {
					return err
				}
				raw = proof.Bytes()
			default:
				proof, err := vybiumfsr.ProveFischlin[uint64](a.cfg, stmt, sid, p, a.log)
				if err != nil {
					return err
				}
				raw = proof.Bytes()
			}

			a.log.Info("proof produced",
				zap.String("transform", a.cfg.Transform),
				zap.String("backend", a.cfg.Backend),
				zap.Uint64("y", p.Statement().Y),
				zap.Int("bytes", len(raw)),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
			return err
		},
	}
	cmd.Flags().Uint64Var(&witness, "witness", 0, "the discrete log w")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for commitment randomness, 0 uses crypto/rand")
	_ = cmd.MarkFlagRequired("witness")
	return cmd
}
