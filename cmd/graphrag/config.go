package graphrag

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/graphrag/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(); err != nil {
			return err
		}
		out, err := renderSettings(viper.AllSettings())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// renderSettings marshals settings as YAML with secrets masked.
func renderSettings(settings map[string]any) (string, error) {
	maskSecrets(settings)
	out, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

func maskSecrets(settings map[string]any) {
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]any:
			maskSecrets(v)
		case string:
			if v != "" && (key == "password" || key == "api_key") {
				settings[key] = "********"
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
