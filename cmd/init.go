package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig mirrors the viper keys so the generated file round-trips.
type initConfig struct {
	Version  int    `yaml:"version"`
	Output   string `yaml:"output"`
	NoCache  bool   `yaml:"no-cache"`
	Mutation struct {
		Dir       string   `yaml:"dir"`
		Operators []string `yaml:"operators"`
	} `yaml:"mutation"`
	Run struct {
		Parallel    int   `yaml:"parallel"`
		TestTimeout int64 `yaml:"test_timeout"`
	} `yaml:"run"`
	Paths struct {
		Exclude []string `yaml:"exclude"`
	} `yaml:"paths"`
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default solmut.yaml configuration file",
		Long: `Create a solmut.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if _, err := os.Stat(targetPath); err == nil {
				return fmt.Errorf("%s already exists", targetPath)
			}

			cfg := initConfig{Version: currentConfigVersion, Output: defaultReportPath, NoCache: defaultNoCache}
			cfg.Mutation.Dir = defaultMutationDir
			cfg.Mutation.Operators = []string{}
			cfg.Run.Parallel = runtime.NumCPU()
			cfg.Run.TestTimeout = int64(defaultTestTimeout.Seconds())
			cfg.Paths.Exclude = []string{}

			payload, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			header := "# solmut configuration. Every key can also be set through the\n" +
				"# environment (prefix SOLMUT_, dots and dashes become underscores).\n"
			payload = append([]byte(header), payload...)

			if err := os.WriteFile(targetPath, payload, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
