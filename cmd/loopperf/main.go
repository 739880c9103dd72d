// Command loopperf applies loop perforation to Go source code in two
// file-mediated passes.
//
// The discover subcommand builds SSA IR for the given files and writes a
// catalog of perforable loops. After an external step assigns integer rates
// to the catalog entries, the rewrite subcommand mutates the eligible loop
// increments and prints the resulting SSA IR.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/loopperf/loopperf/perf"
	gossa "github.com/loopperf/loopperf/ssa"
	"github.com/loopperf/loopperf/ssa/build"
)

var (
	infoPath  string
	ratesPath string
	outPath   string
	logPath   string
)

func main() {
	root := &cobra.Command{
		Use:           "loopperf",
		Short:         "loop perforation passes over Go SSA IR",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logPath, "log", "", "SSA build log file (use '-' for stderr)")

	discover := &cobra.Command{
		Use:   "discover file.go [files.go...]",
		Short: "Catalog the perforable loops of the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiscover,
	}
	discover.Flags().StringVar(&infoPath, "info", perf.DefaultCatalogPath, "filename to write the loop catalog to")

	rewrite := &cobra.Command{
		Use:   "rewrite file.go [files.go...]",
		Short: "Perforate catalogued loops and print the rewritten SSA IR",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRewrite,
	}
	rewrite.Flags().StringVar(&ratesPath, "rates", perf.DefaultRatesPath, "filename to read the loop rates from")
	rewrite.Flags().StringVar(&outPath, "out", "", "output file for the rewritten SSA IR (default: stdout)")

	root.AddCommand(discover, rewrite)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "loopperf:", err)
		os.Exit(1)
	}
}

// buildSSA builds the SSA IR of the source files, honouring the -log flag.
func buildSSA(files []string) (*gossa.Info, error) {
	conf := build.FromFiles(files...).Default()
	switch logPath {
	case "":
	case "-":
		conf = conf.WithBuildLog(os.Stderr, log.LstdFlags)
	default:
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		conf = conf.WithBuildLog(f, log.LstdFlags)
	}
	return conf.Build()
}

func runDiscover(cmd *cobra.Command, args []string) error {
	info, err := buildSSA(args)
	if err != nil {
		return err
	}
	logger := perf.NewLogger()
	defer logger.Sync() // Sync error ignored. See https://github.com/uber-go/zap/issues/328

	pass := perf.NewDiscovery(infoPath, logger)
	for _, fn := range info.SourceFuncs() {
		pass.RunOnFunction(fn)
	}
	// Single write at teardown: one consistent catalog per invocation.
	return pass.Close()
}

func runRewrite(cmd *cobra.Command, args []string) error {
	info, err := buildSSA(args)
	if err != nil {
		return err
	}
	logger := perf.NewLogger()
	defer logger.Sync() // Sync error ignored. See https://github.com/uber-go/zap/issues/328

	pass, err := perf.NewRewriter(ratesPath, logger)
	if err != nil {
		return err
	}
	for _, fn := range info.SourceFuncs() {
		pass.RunOnFunction(fn)
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if _, err := info.WriteTo(out); err != nil {
		return err
	}
	return nil
}
