package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solmut.dev/pkg/solmut/internal/domain"
	m "solmut.dev/pkg/solmut/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [paths...]",
		Short: "List applicable mutants",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				Paths:       parsePaths(args),
				Exclude:     viper.GetStringSlice(excludeConfigKey),
				Operators:   parseOperators(viper.GetStringSlice(operatorsConfigKey)),
				MutationDir: m.Path(viper.GetString(mutationDirKey)),
				UseCache:    !viper.GetBool(noCacheFlagName),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
