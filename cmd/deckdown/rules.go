package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deckdown/internal/classify"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active heuristic rule sets as YAML",
	Long: `Rules prints the classifier's pattern rules: equation font families and
code token patterns. The output is a valid rules file, so it can be saved,
edited, and passed back with --rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := classify.DefaultRules()
		if file, _ := cmd.Flags().GetString("rules"); file != "" {
			var err error
			rules, err = classify.LoadRules(file)
			if err != nil {
				return err
			}
		}
		data, err := yaml.Marshal(rules)
		if err != nil {
			return fmt.Errorf("marshaling rules: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rulesCmd.Flags().String("rules", "", "YAML rules file to print instead of the defaults")

	rootCmd.AddCommand(rulesCmd)
}
