// Package cli implements the certgen command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/certificateflow/internal/services"
)

var (
	config  services.GeneratorConfig
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "certgen",
	Short: "Generate refuge certificates from a registration roster",
	Long: `certgen reads a registration CSV, selects the registrants of one location
that have a dharma name, and writes one certificate PDF per registrant into a zip.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	defaults, err := services.LoadGeneratorConfig()
	if err != nil {
		slog.Warn("Ignoring invalid environment configuration", "error", err)
		defaults = &services.GeneratorConfig{}
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	flags.StringVar(&config.FontPath, "font", defaults.FontPath, "TrueType font file or gs:// URI")
	flags.StringVar(&config.FontName, "font-name", defaults.FontName, "Logical font name")
	flags.StringVar(&config.FontScript, "font-script", defaults.FontScript, "CJK script of the font (SC, TC, JA, KO), empty for none")
	flags.StringVar(&config.TemplatePath, "template", defaults.TemplatePath, "Template PDF or gs:// URI")
	flags.IntVar(&config.TargetPage, "target-page", defaults.TargetPage, "Zero-based template page that receives the names")
	flags.StringVar(&config.ProfilePath, "profile", defaults.ProfilePath, "YAML layout profile")
	flags.StringVar(&config.RosterEncoding, "encoding", defaults.RosterEncoding, "Roster encoding (utf-8 or gb18030)")
	flags.StringVar(&config.PDFConfigDir, "pdf-config-dir", defaults.PDFConfigDir, "pdfcpu configuration directory")
	config.ScratchDir = defaults.ScratchDir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
