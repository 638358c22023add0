package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grimechristopher/llm-adventure/internal/entropy"
	"github.com/grimechristopher/llm-adventure/internal/llm"
	"github.com/grimechristopher/llm-adventure/internal/mapper"
	"github.com/grimechristopher/llm-adventure/internal/terrain"
)

var assignCmd = &cobra.Command{
	Use:   "assign <world>",
	Short: "Assign coordinates to every location of a world",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		world, err := db.WorldByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		client := llm.NewClient(
			os.Getenv("ANTHROPIC_API_KEY"),
			cfg.LLM.Model,
			cfg.LLM.MaxTokens,
			cfg.LLM.CallsPerMinute,
		)
		if !client.Enabled() {
			fmt.Fprintln(os.Stderr, color.YellowString(
				"ANTHROPIC_API_KEY not set — relative positions will be left unresolved"))
		}

		spread := mapper.SpreadCompressed
		if cfg.Mapping.AnchorSpread == "full" {
			spread = mapper.SpreadFull
		}

		var oracle mapper.ConstraintOracle
		if cfg.Mapping.OracleConstraints {
			oracle = llm.NewPlanner(client)
		}

		m := mapper.New(
			db,
			llm.NewPositionParser(client),
			oracle,
			terrain.NewField(world.ID),
			entropy.CryptoSource{},
			mapper.Config{
				Spread:           spread,
				MinSeparationKm:  cfg.Mapping.MinSeparationKm,
				ConflictOffsetKm: cfg.Mapping.ConflictOffsetKm,
			},
		)

		summary, err := m.AssignCoordinates(cmd.Context(), world.ID)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.GreenString("world:"), world.Name)
		fmt.Printf("  locations   %d\n", summary.TotalLocations)
		fmt.Printf("  anchors     %d\n", summary.AnchorLocations)
		fmt.Printf("  relatives   %d\n", summary.RelativeLocations)
		fmt.Printf("  placed      %d\n", summary.LocationsWithCoordinates)
		if n := summary.Unresolved(); n > 0 {
			fmt.Printf("  %s %d\n", color.RedString("unresolved"), n)
		} else {
			faint.Println("  all locations placed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}
