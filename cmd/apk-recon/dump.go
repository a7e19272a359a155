package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/logger"
	"apk-recon/internal/program"
)

func newDumpCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Build the program model from decompiled sources and save it",
		Long: `Parses and links a decompiled sources directory once and saves the
resulting program model, so later runs of extract and candidates can load
the dump instead of parsing again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runDump(cfg, opts.output, opts.verbose, cmd.ErrOrStderr())
		},
	}
	addModelFlag(cmd, opts, "Decompiled sources directory (or a dump to convert)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Dump file to write (.yaml, .yml or .json; must not exist)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runDump(cfg *config.Config, target string, verbose bool, stderr io.Writer) error {
	if err := common.EnsureFree(target); err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Console: stderr, Verbose: verbose}); err != nil {
		return err
	}
	defer logger.Close()

	mem, err := loadModel(cfg.Input.Model, cfg, func() {})
	if err != nil {
		return err
	}
	if err := program.SaveFile(target, mem); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	logger.Info("✅ Saved %d classes to %s", mem.Len(), target)
	return nil
}
