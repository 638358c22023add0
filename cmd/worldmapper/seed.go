package main

import (
	"fmt"
	"math/rand"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grimechristopher/llm-adventure/internal/model"
)

var (
	seedName      string
	seedLocations int
	seedSeed      int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo world with procedurally named locations",
	Long: `Creates a world whose locations carry the kinds of positional
constraints the wizard flow produces, so the mapping pipeline can be
exercised without it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(seedSeed))

		world, err := db.CreateWorld(cmd.Context(), seedName, "seeded demo world")
		if err != nil {
			return err
		}

		names := generateNames(rng, seedLocations)

		for i, name := range names {
			loc := &model.Location{WorldID: world.ID, Name: name}
			// Roughly a third anchors, the rest constrained against
			// earlier names.
			if i > 0 && rng.Float64() > 0.35 {
				loc.RelativePosition = constraintFor(rng, names[:i])
			}
			if err := db.CreateLocation(cmd.Context(), loc); err != nil {
				return err
			}
		}

		fmt.Printf("%s %s (%d locations)\n", color.GreenString("seeded:"), world.Name, seedLocations)
		return nil
	},
}

// constraintFor produces a positional phrase against already-created
// locations, mixing simple, between, and compound forms.
func constraintFor(rng *rand.Rand, earlier []string) string {
	ref := earlier[rng.Intn(len(earlier))]
	directions := []string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}
	qualifiers := []string{"very close", "close", "nearby", "moderate distance", "far", "very far"}

	switch rng.Intn(4) {
	case 0:
		return fmt.Sprintf("%s %s of %s", qualifiers[rng.Intn(len(qualifiers))], directions[rng.Intn(len(directions))], ref)
	case 1:
		return fmt.Sprintf("%dkm %s of %s", 20+rng.Intn(180), directions[rng.Intn(len(directions))], ref)
	case 2:
		if len(earlier) > 1 {
			other := earlier[rng.Intn(len(earlier))]
			if other != ref {
				return fmt.Sprintf("between %s and %s", ref, other)
			}
		}
		return fmt.Sprintf("nearby %s", ref)
	default:
		return fmt.Sprintf("%s of %s, near the coast", directions[rng.Intn(len(directions))], ref)
	}
}

// generateNames produces procedural location names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "Aldenmere", "world name")
	seedCmd.Flags().IntVar(&seedLocations, "locations", 12, "number of locations")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 42, "random seed")
	rootCmd.AddCommand(seedCmd)
}
