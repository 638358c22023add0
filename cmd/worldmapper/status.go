package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grimechristopher/llm-adventure/internal/geo"
	"github.com/grimechristopher/llm-adventure/internal/terrain"
)

var statusCmd = &cobra.Command{
	Use:   "status <world>",
	Short: "Show a world's locations and their coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		world, err := db.WorldByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		locations, err := db.LocationsForWorld(cmd.Context(), world.ID)
		if err != nil {
			return err
		}

		field := terrain.NewField(world.ID)
		faint := color.New(color.Faint)

		fmt.Printf("%s %s (%d locations)\n", color.GreenString("world:"), world.Name, len(locations))
		for _, loc := range locations {
			if !loc.HasCoordinate() {
				fmt.Printf("  %s %s\n", color.CyanString(loc.Name), faint.Sprint("(no coordinate)"))
				continue
			}
			p := geo.Point{Lat: *loc.Latitude, Lon: *loc.Longitude}
			fmt.Printf("  %s %s %s\n",
				color.CyanString(loc.Name),
				p,
				faint.Sprintf("[%s, %s]", loc.PositionSource, field.HintAt(p)),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
