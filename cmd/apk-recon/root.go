package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"apk-recon/internal/config"
)

// options are the command line overrides shared by the subcommands.
type options struct {
	configPath string
	verbose    bool

	model     string
	resources string
	apk       string
	output    string
	formats   string
	workers   int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:     "apk-recon",
		Short:   appDesc,
		Version: appVersion,
		Long: `APK Recon reads the output of an Android decompiler and recovers the
GraphQL operations compiled into the app (id, name and document) together
with the raw OAuth client id published in its XML resources.`,
		Example: `
# Analyse jadx output and print the result as JSON
apk-recon extract -m jadx-out/sources -r jadx-out/resources

# Write the JSON result and an Excel report
apk-recon extract -m model.yaml -r res -o result.json -f json,excel
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("%s v{{.Version}}\n%s\n", appName, appDesc))

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default apk-recon.yaml if present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")

	root.AddCommand(newExtractCmd(opts), newCandidatesCmd(opts), newDumpCmd(opts))
	return root
}

// addModelFlag registers -m on cmd.
func addModelFlag(cmd *cobra.Command, opts *options, usage string) {
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", usage)
}

// loadConfig reads the configuration and applies the flags cmd received.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Input.Model = opts.model
	}
	if flags.Changed("resources") {
		cfg.Input.Resources = opts.resources
	}
	if flags.Changed("apk") {
		cfg.Input.APK = opts.apk
		// an APK on the command line replaces the configured resources dir
		// unless one was given as well
		if !flags.Changed("resources") {
			cfg.Input.Resources = ""
		}
	}
	if flags.Changed("format") {
		cfg.Output.Formats = splitList(opts.formats)
	}
	if flags.Changed("output") {
		cfg.Output.JSONPath = opts.output
		if !cfg.WantsFormat("json") {
			cfg.Output.Formats = append(cfg.Output.Formats, "json")
		}
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = opts.workers
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
