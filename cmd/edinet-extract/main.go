package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	edinet "github.com/edinet-tools/go-edinet"
)

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "edinet-extract",
	Short: "Extract structured facts from EDINET filing archives",
	Long: "Parses EDINET XBRL/inline-XBRL filing archives (large shareholding reports,\n" +
		"annual and quarterly reports) and prints the extracted facts as JSON.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		cfg := zap.NewProductionConfig()
		if viper.GetBool("verbose") {
			cfg = zap.NewDevelopmentConfig()
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func readArchive(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if edinet.LooksLikePDF(data) {
		return nil, fmt.Errorf("%s looks like a PDF, not a filing archive", path)
	}
	return data, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if viper.GetBool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

var holdingCmd = &cobra.Command{
	Use:   "holding <archive.zip>",
	Short: "Extract shareholding facts from a large shareholding report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readArchive(args[0])
		if err != nil {
			return err
		}
		rec := edinet.NewExtractor(logger).ExtractHolding(data)
		return printJSON(rec)
	},
}

var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals <archive.zip>",
	Short: "Extract company fundamentals from an annual or quarterly report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readArchive(args[0])
		if err != nil {
			return err
		}
		rec := edinet.NewExtractor(logger).ExtractFundamentals(data)
		return printJSON(rec)
	},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <archive.zip>",
	Short: "Show what each extraction stage sees in an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readArchive(args[0])
		if err != nil {
			return err
		}
		return printJSON(edinet.NewExtractor(logger).Diagnose(data))
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <member-file>",
	Short: "Classify a single extracted member as inline or traditional XBRL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		format := edinet.DetectFormat(data)
		if format == "" {
			fmt.Println("unknown")
			return nil
		}
		fmt.Println(string(format))
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().Bool("pretty", false, "indent JSON output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	viper.SetEnvPrefix("EDINET")
	viper.AutomaticEnv()

	rootCmd.AddCommand(holdingCmd, fundamentalsCmd, diagnoseCmd, detectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
