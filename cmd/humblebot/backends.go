package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"humblebot/internal/catalog"
	"humblebot/internal/service/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List backends, their models and whether they are configured",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := catalog.NewRegistry()
		if err != nil {
			return fmt.Errorf("load backend catalog: %w", err)
		}
		factory := backend.NewFactory(cfg, cat)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("BACKEND", "STATUS", "MODELS")

		for _, b := range cat.List() {
			status := "ready"
			if ok, missing := factory.Available(b.Name); !ok {
				status = "needs " + missing
			}
			if b.Name == cfg.Backend {
				status += " (selected)"
			}
			t.Row(b.Name, status, formatModels(b))
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func formatModels(b catalog.Backend) string {
	if len(b.Models) == 0 {
		if b.AllowCustomModels {
			return "any"
		}
		return "-"
	}

	def := b.DefaultModel()
	names := make([]string, 0, len(b.Models))
	for _, m := range b.Models {
		name := m.ID
		if m.ID == def {
			name += " *"
		}
		names = append(names, name)
	}
	if b.AllowCustomModels {
		names = append(names, "(any)")
	}
	return strings.Join(names, "\n")
}
