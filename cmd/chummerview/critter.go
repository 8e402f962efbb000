package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chummerview/internal/critter"
)

func critterCmd() *cobra.Command {
	var force int
	var templates string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "critter <name>",
		Short: "Generate a spirit or sprite at a given force",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(templates)
			if err != nil {
				return err
			}
			return runCritter(catalog, strings.Join(args, " "), force, asJSON)
		},
	}
	cmd.PersistentFlags().StringVar(&templates, "templates", "", "Extra critter template file (defaults to the project config's critters)")
	cmd.Flags().IntVar(&force, "force", 1, "Force or level")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.AddCommand(critterListCmd(&templates))
	return cmd
}

func critterListCmd(templates *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available critter templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(*templates)
			if err != nil {
				return err
			}
			for _, t := range catalog.Templates() {
				fmt.Fprintf(os.Stdout, "%s (%s)\n", t.Name, t.Type)
			}
			return nil
		},
	}
}

func loadCatalog(templates string) (*critter.Catalog, error) {
	if templates == "" {
		cfg, err := loadOptionalConfig()
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			templates = cfg.Critters
		}
	}
	if templates == "" {
		return critter.LoadCatalog()
	}
	return critter.LoadCatalog(templates)
}

func runCritter(catalog *critter.Catalog, name string, force int, asJSON bool) error {
	c, err := catalog.Generate(name, force)
	if err != nil {
		return err
	}

	if asJSON {
		payload, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding critter: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s (%s) Force %d\n", c.Name, c.Type, c.Force)
	fmt.Fprintf(os.Stdout, "Attributes: %s\n", joinRatings(c.Attributes))
	fmt.Fprintf(os.Stdout, "Initiative: %s (%s)\n", c.Initiative, c.InitiativeType)
	fmt.Fprintf(os.Stdout, "Skills: %s\n", joinRatings(c.Skills))
	fmt.Fprintf(os.Stdout, "Powers: %s\n", strings.Join(c.Powers, ", "))
	if optional := strings.Join(c.OptionalPowers, ", "); strings.TrimSpace(optional) != "" {
		fmt.Fprintf(os.Stdout, "Optional powers: %s\n", optional)
	}
	if c.Special != "" {
		fmt.Fprintf(os.Stdout, "Special: %s\n", c.Special)
	}
	if c.Notes != "" {
		fmt.Fprintf(os.Stdout, "Notes: %s\n", c.Notes)
	}
	return nil
}

func joinRatings(ratings []critter.Rating) string {
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		parts = append(parts, fmt.Sprintf("%s %d", r.Name, r.Value))
	}
	return strings.Join(parts, ", ")
}
