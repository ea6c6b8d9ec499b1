package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-fsr/internal/vybium-fsr/oracle"
)

func newParamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Show the Fischlin parameters and check them against the soundness target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.cfg.FischlinParams()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.String())
			fmt.Fprintf(out, "search width: %d bits\n", p.SearchWidth())
			fmt.Fprintf(out, "soundness loss per repetition: %d bits\n", p.SoundnessLoss())
			if err := p.CheckSoundness(); err != nil {
				return err
			}
			fmt.Fprintln(out, "sound")
			return nil
		},
	}
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the random-oracle backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sb strings.Builder
			for _, name := range oracle.Backends() {
				sb.WriteString(name)
				if name == oracle.DefaultBackend {
					sb.WriteString(" (default)")
				}
				sb.WriteByte('\n')
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
}
