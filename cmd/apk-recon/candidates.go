package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"apk-recon/internal/config"
	"apk-recon/internal/gql"
	"apk-recon/internal/logger"
)

func newCandidatesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List operation descriptor candidates and their constructor shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runCandidates(cfg, opts.verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addModelFlag(cmd, opts, "Model dump (.yaml/.yml/.json) or decompiled sources directory")
	return cmd
}

func runCandidates(cfg *config.Config, verbose bool, stdout, stderr io.Writer) error {
	if err := logger.Init(logger.Options{Console: stderr, Verbose: verbose}); err != nil {
		return err
	}
	defer logger.Close()

	mem, err := loadModel(cfg.Input.Model, cfg, func() {})
	if err != nil {
		return err
	}

	candidates, stats := gql.NewExtractor().Candidates(mem)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS\tCONSTRUCTORS\tSETS\tRETAINED")
	for _, c := range candidates {
		shapes := make([]string, len(c.Shapes))
		for i, s := range c.Shapes {
			shapes[i] = s.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", c.Class.Name(), strings.Join(shapes, ","), len(c.ArgumentSets), c.Retained())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\n%d candidates, %d retained, %d constructors (data-class %d, no-arg %d, loose-string %d, unknown %d)\n",
		stats.CandidateClasses, stats.RetainedClasses, stats.TotalConstructors(),
		stats.DataClassConstructors, stats.NoArgConstructors, stats.LooseStringConstructors, stats.UnknownConstructors)
	return nil
}
