package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"apk-recon/internal/analyzer"
	"apk-recon/internal/config"
	"apk-recon/internal/exporter"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/logger"
	"apk-recon/internal/model"
	"apk-recon/internal/ui"
)

const logFileName = "apk-recon.log"

func newExtractCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover GraphQL operations and the OAuth client id",
		Long: `Runs the full analysis. Without -o and with only the json format
requested, the result is printed to stdout and all other output is
silenced. Reports in other formats are written to output.dir and replace
the previous ones.

With -a alone only the binary XML entries of the APK are scanned;
resources.arsc is not decoded, so a client id published as a string
resource is only found through the decoded resources directory (-r).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runExtract(cfg, opts.verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addModelFlag(cmd, opts, "Model dump (.yaml/.yml/.json) or decompiled sources directory")
	cmd.Flags().StringVarP(&opts.resources, "resources", "r", "", "Decoded XML resources directory")
	cmd.Flags().StringVarP(&opts.apk, "apk", "a", "", "APK file: binary XML layouts and manifest only; string resources (res/values) need -r")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the JSON result to this file (must not exist)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "Comma-separated output formats (json,excel,html,word,sqlite)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Parallel parsers (default NumCPU)")
	return cmd
}

func runExtract(cfg *config.Config, verbose bool, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	streaming := cfg.StreamsToStdout()
	if cfg.Output.JSONPath != "" {
		// fail before the analysis rather than after it
		if err := common.EnsureFree(cfg.Output.JSONPath); err != nil {
			return err
		}
	}

	logOpts := logger.Options{Console: stderr, Verbose: verbose, Quiet: streaming}
	if !streaming {
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
		logOpts.FilePath = filepath.Join(cfg.Output.Dir, logFileName)
	}
	if err := logger.Init(logOpts); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	pipeline := ui.NewPipelineWithOutput(ui.AnalysisPhases, stderr)
	if streaming {
		pipeline.Disable()
	} else {
		printBanner(stderr)
		if verbose {
			cfg.Print()
		}
	}

	// --- Phase 1: Program model ---
	logger.Info("Phase 1: Loading program model from %s", cfg.Input.Model)
	bar := pipeline.NextPhase(-1)
	bar.Describe(filepath.Base(cfg.Input.Model))
	mem, err := loadModel(cfg.Input.Model, cfg, bar.Tick)
	if err != nil {
		return err
	}

	// --- Phase 2: XML resources ---
	logger.Info("Phase 2: Decoding XML resources...")
	bar = pipeline.NextPhase(-1)
	docs, err := loadDocuments(cfg, bar.Tick)
	if err != nil {
		return err
	}
	app := appInfo(cfg)

	// --- Phases 3 and 4: analysis steps ---
	a := analyzer.New(analyzer.Config{
		OAuthKey: determineClientIDKey(cfg),
		OnStep: func(step string) {
			switch step {
			case analyzer.StepOperations:
				logger.Info("Phase 3: Extracting GraphQL operations...")
			case analyzer.StepClientID:
				logger.Info("Phase 4: Scanning for the OAuth client id...")
			}
			pipeline.NextPhase(1)
		},
	})
	outcome, err := a.Analyze(&analyzer.Input{Model: mem, Documents: docs.Documents})
	if err != nil {
		return err
	}

	stats := outcome.Stats
	stats.DocumentsFailed = docs.Failed

	report, err := model.NewReport(outcome.Result, stats, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	report.App = app

	if streaming {
		pipeline.Finish()
		return exporter.WriteJSON(stdout, report.Result)
	}

	// --- Phase 5: Reports ---
	logger.Info("Phase 5: Writing reports...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	bar = pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		bar.Describe(exp.Name())
		if err := exp.Export(report, cfg); err != nil {
			logger.Debug("%s export failed: %v", exp.Name(), err)
			exportErrors = append(exportErrors, fmt.Errorf("%s export: %w", exp.Name(), err))
		}
		bar.Tick()
	}
	pipeline.Finish()

	if len(exportErrors) > 0 {
		return joinLine(exportErrors)
	}

	logger.Info("Result digest %s", report.Digest)
	pipeline.PrintSummary(fmt.Sprintf("✅ %d operations, client id %s. Reports in [%s].",
		len(report.Result.GQLOperations), report.Result.RawOAuthClientID, cfg.Output.Dir))
	return nil
}

// determineClientIDKey returns the resource key the client id is published
// under.
func determineClientIDKey(cfg *config.Config) string {
	if cfg.Analysis.OAuthKey != "" {
		return cfg.Analysis.OAuthKey
	}
	return config.DefaultOAuthKey
}

// joinLine keeps every error matchable with errors.Is while rendering them
// on one line.
func joinLine(errs []error) error {
	err := errs[0]
	for _, next := range errs[1:] {
		err = fmt.Errorf("%w; %w", err, next)
	}
	return err
}
