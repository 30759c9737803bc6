package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solmut.dev/pkg/solmut/internal/domain"
	m "solmut.dev/pkg/solmut/internal/model"
)

var runParallelFlag int
var runOperatorsFlag []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Run(cmd.Context(), domain.RunArgs{
				Paths:       parsePaths(args),
				Exclude:     viper.GetStringSlice(excludeConfigKey),
				Operators:   parseOperators(viper.GetStringSlice(operatorsConfigKey)),
				MutationDir: m.Path(viper.GetString(mutationDirKey)),
				ReportPath:  m.Path(viper.GetString(outputFlagName)),
				UseCache:    !viper.GetBool(noCacheFlagName),
				Threads:     viper.GetInt(runParallelConfigKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringSliceVar(&runOperatorsFlag, operatorsFlagName, viper.GetStringSlice(operatorsConfigKey), "mutation operators to apply (default: all)")
	bindFlagToConfig(cmd.Flags().Lookup(operatorsFlagName), operatorsConfigKey)
}

func viperTestTimeout() time.Duration {
	return time.Duration(viper.GetInt64(testTimeoutKey)) * time.Second
}
