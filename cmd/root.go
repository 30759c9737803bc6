// Package cmd provides the root command and CLI setup for solmut.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"solmut.dev/pkg/solmut/internal/adapter"
	"solmut.dev/pkg/solmut/internal/controller"
	"solmut.dev/pkg/solmut/internal/domain"
	m "solmut.dev/pkg/solmut/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var parserAdapter adapter.SolidityParserAdapter
var compilerAdapter adapter.CompilerAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var ui controller.UI
var workflow domain.Workflow

// reportOutputFlag is a root-level flag shared by commands that write reports.
var reportOutputFlag string

// noCacheFlag disables incremental caching when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag raises the log level to debug.
var verboseFlag bool

// jsonOutputFlag switches console output to machine-readable JSON.
var jsonOutputFlag bool

func init() {
	configureRootFlags(rootCmd)
	initDependencies()
}

func initDependencies() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	parserAdapter = adapter.NewSolcParserAdapter()
	compilerAdapter = adapter.NewForgeCompilerAdapter()
	testAdapter = adapter.NewForgeTestRunnerAdapter(viperTestTimeout())
	reportStore = adapter.NewJSONReportStore()
	workflow = domain.NewWorkflow(
		fsAdapter,
		parserAdapter,
		compilerAdapter,
		testAdapter,
		reportStore,
		ui,
	)
}

const pathPatternsHelp = `Targets are Solidity contracts; test (*.t.sol) and script (*.s.sol)
files are never mutated. Paths may name files or directories:
  - src              recursively scan the src directory
  - src/Token.sol    mutate a single contract
  - src lib-local    scan multiple directories`

const rootLongDescription = `solmut is a mutation testing tool for Solidity that assesses the quality
of a Foundry project's test suite by introducing small changes (mutants)
into the contracts and verifying that the tests catch them.

` + pathPatternsHelp

const runLongDescription = `Run mutation testing for the given paths (default: current project).

` + pathPatternsHelp

const listLongDescription = `List contracts and the number of applicable mutants without running any.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd *cobra.Command

// rootCmd is assigned through a blank package-level initializer so it is set
// before any init funcs run, without forming a static initialization cycle
// with the closure in baseRootCmd that refers back to rootCmd.
var _ = func() *cobra.Command {
	rootCmd = baseRootCmd()
	return rootCmd
}()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solmut",
		Short: "Solidity mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))

			// The UI is wired before flags are parsed, so the JSON switch
			// re-selects it here.
			if jsonOutputFlag {
				ui = controller.NewJSONUI(rootCmd)
				workflow = domain.NewWorkflow(fsAdapter, parserAdapter, compilerAdapter, testAdapter, reportStore, ui)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportOutputFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output path for the JSON mutation report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable cached incremental runs (re-test everything)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&jsonOutputFlag, jsonFlagName, false, "print machine-readable JSON instead of tables")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the command context so in-flight mutants restore their
// sources before the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseOperators(names []string) []m.MutationKind {
	kinds := make([]m.MutationKind, 0, len(names))
	for _, name := range names {
		kinds = append(kinds, m.MutationKind(name))
	}

	return kinds
}
