package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/journally/pkg/app"
	"tableflip.dev/journally/pkg/model"
	"tableflip.dev/journally/pkg/store"
)

type Info struct {
	Config  *store.FileConfig
	Service *app.Service
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("JOURNALLY_CONFIG_PATH"); override != "" {
		fmt.Println("JOURNALLY_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("JOURNALLY_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Service == nil {
		return fmt.Errorf("Failed to open the journal.")
	}

	file := n.Config.File
	if file == "" {
		file = "(defaults)"
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Config file:", file)
	tbl.AddRow("Config.path:", n.Config.BasePath())
	tbl.AddRow("Driver:", n.Config.Driver())
	tbl.AddRow("Provider:", n.Config.Provider)
	tbl.AddRow("Model:", n.Config.Model)
	tbl.AddRow("Daily calls:", n.Config.MaxDailyCalls)
	tbl.AddRow("Credential:", credential(n.Config))
	_, _ = fmt.Fprintln(color.Output, tbl)

	days, err := n.Service.Days(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Printf("Days:\n  %s\n", "no days journaled")
		return nil
	}
	fmt.Printf("Days: %d, from %s to %s\n", len(days), days[0], days[len(days)-1])
	return nil
}

func credential(cfg *store.FileConfig) string {
	key := cfg.OpenAIKey
	if cfg.Provider == model.ProviderGemini {
		key = cfg.GeminiKey
	}
	if key == "" {
		return "missing"
	}
	return "set"
}
