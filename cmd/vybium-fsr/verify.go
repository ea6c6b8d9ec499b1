package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/metrics"
	"github.com/vybium/vybium-fsr/internal/vybium-fsr/sigma/toy"
	vybiumfsr "github.com/vybium/vybium-fsr/pkg/vybium-fsr"
)

var errRejected = errors.New("proof rejected")

func newVerifyCmd(a *app) *cobra.Command {
	var (
		y        uint64
		proofHex string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a hex proof for Y = w*G; the proof is read from stdin unless --proof is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			g, err := toy.NewGroup(a.cfg.Modulus)
			if err != nil {
				return err
			}
			if proofHex == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read proof: %w", err)
				}
				proofHex = line
			}
			raw, err := hex.DecodeString(strings.TrimSpace(proofHex))
			if err != nil {
				return fmt.Errorf("decode proof hex: %w", err)
			}

			stmt := toy.Statement{G: g.Scalar(a.cfg.Generator).V, Y: y}
			v := toy.NewVerifier(g, stmt)
			sid := []byte(a.cfg.SessionID)

			var ok bool
			switch a.cfg.Transform {
			case metrics.TransformFS:
				proof, decoded := vybiumfsr.DecodeFSProof(raw)
				if !decoded {
					return fmt.Errorf("%w: malformed FS proof", errRejected)
				}
				ok, err = vybiumfsr.VerifyFS(a.cfg, stmt.Bytes(g), sid, proof, v.Check)
			default:
				proof, decoded := vybiumfsr.DecodeFischlinProof(raw)
				if !decoded {
					return fmt.Errorf("%w: malformed Fischlin proof", errRejected)
				}
				ok, err = vybiumfsr.VerifyFischlin(a.cfg, stmt.Bytes(g), sid, proof, v.Check)
			}
			if err != nil {
				return err
			}
			a.log.Info("proof checked", zap.String("transform", a.cfg.Transform), zap.Bool("valid", ok))
			if !ok {
				return errRejected
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}
	cmd.Flags().Uint64Var(&y, "y", 0, "the public key Y")
	cmd.Flags().StringVar(&proofHex, "proof", "", "hex-encoded proof")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}
