// Command taxengine is a thin cobra CLI over the tax calculation core: it
// loads a YAML regime document, runs the calculation, and prints a report.
package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/taxengine/taxengine/internal/config"
)

// Logger is the narrow logging seam of the command layer; the calculate
// command uses it to log the loaded document and a failed calculation. The
// calculation core itself never logs or performs I/O; only this command
// layer does.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// simpleCLILogger implements Logger using the standard log package.
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxengine %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "taxengine",
	Short: "Progressive multi-currency tax calculation engine",
	Long:  "Computes net tax liability or refund from a YAML regime document of schedules, incomes, and claims.",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [regime-file]",
	Short: "Calculate tax liability or refund for a regime document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := simpleCLILogger{}
		inputFile := args[0]

		parser := config.NewParser()
		doc, err := parser.LoadFromFile(inputFile)
		if err != nil {
			return fmt.Errorf("loading %s: %w", inputFile, err)
		}
		logger.Infof("loaded regime document with %d schedule(s) from %s", len(doc.Schedules), inputFile)

		regime, err := doc.BuildRegime()
		if err != nil {
			return fmt.Errorf("building regime: %w", err)
		}

		incomes, err := doc.BuildIncomes()
		if err != nil {
			return fmt.Errorf("building incomes: %w", err)
		}

		result, err := regime.Calculate(incomes, doc.BuildDeductionClaims(), doc.BuildCreditClaims())
		if err != nil {
			logger.Errorf("calculation failed: %v", err)
			return fmt.Errorf("calculating tax: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), config.FormatResult(result))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [regime-file]",
	Short: "Validate a regime document without calculating tax",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		parser := config.NewParser()
		doc, err := parser.LoadFromFile(inputFile)
		if err != nil {
			return fmt.Errorf("validating %s: %w", inputFile, err)
		}
		if _, err := doc.BuildRegime(); err != nil {
			return fmt.Errorf("validating %s: %w", inputFile, err)
		}
		fmt.Fprintf(os.Stdout, "%s is valid: %d schedule(s)\n", inputFile, len(doc.Schedules))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
