package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/classifier"
	"github.com/fenilsonani/declutter/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage classification rules",
	Long: `Classification rules run before the AI classifier: keyword rules match a
substring of the file name, extension rules match the file extension.
Keyword rules always win over extension rules.`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.CustomRules) == 0 {
			fmt.Println("No rules configured.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Type", "Pattern", "Category"})
		for _, rule := range cfg.CustomRules {
			t.AppendRow(table.Row{rule.ID, rule.Type, rule.Pattern, rule.Category})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add [keyword|extension] [pattern] [category]",
	Short: "Add a classification rule",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, ok := catalog.ParseCategory(args[2])
		if !ok {
			return fmt.Errorf("unknown category %q (valid: %v)", args[2], catalog.Categories)
		}

		rule := classifier.NewRule(classifier.RuleType(args[0]), args[1], category)
		if err := rule.Validate(); err != nil {
			return err
		}

		cfgPath, cfg, err := loadConfigWithPath()
		if err != nil {
			return err
		}
		cfg.CustomRules = append(cfg.CustomRules, rule)
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("Added rule %s\n", rule.ID)
		return nil
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a classification rule by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, cfg, err := loadConfigWithPath()
		if err != nil {
			return err
		}

		kept := cfg.CustomRules[:0]
		removed := false
		for _, rule := range cfg.CustomRules {
			if rule.ID == args[0] {
				removed = true
				continue
			}
			kept = append(kept, rule)
		}
		if !removed {
			return fmt.Errorf("no rule with id %s", args[0])
		}

		cfg.CustomRules = kept
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Println("Rule removed.")
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export rules and exclusions as a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ExportRules(args[0]); err != nil {
			return err
		}
		fmt.Printf("Rules exported to %s\n", args[0])
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import rules and exclusions from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, cfg, err := loadConfigWithPath()
		if err != nil {
			return err
		}
		if err := cfg.ImportRules(args[0]); err != nil {
			return err
		}
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("Imported %d rules and %d exclusions.\n",
			len(cfg.CustomRules), len(cfg.ExcludedFolders))
		return nil
	},
}

func loadConfigWithPath() (string, *config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.GetConfigPath()
		if err != nil {
			return "", nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return "", nil, err
	}
	return cfgPath, cfg, nil
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesImportCmd)
}
