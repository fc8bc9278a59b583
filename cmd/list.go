package cmd

import (
	"fmt"
	"sort"

	"github.com/conneroisu/weaver/internal/config"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered components and their views",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	components, err := config.LoadComponents(cfg.Components.ScanPaths)
	if err != nil {
		return fmt.Errorf("scanning components: %w", err)
	}

	if len(components) == 0 {
		cmd.Println("No components found on the configured scan paths.")
		return nil
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].Path < components[j].Path
	})

	for _, component := range components {
		cmd.Printf("%s\n", component.Path)

		names := make([]string, 0, len(component.Views))
		for name := range component.Views {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			view := component.Views[name]
			kind := "component"
			if view.Blueprint {
				kind = "blueprint"
			}
			cmd.Printf("  %s (%s, %s)\n", name, view.Technology, kind)
		}
	}
	return nil
}
