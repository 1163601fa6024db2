package main

import (
	"fmt"
	"log"

	"github.com/lifemarket/lifemarket/internal/config"
	"github.com/lifemarket/lifemarket/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [scenario-file]",
		Short: "Validate a scenario configuration and resolve its timeline",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			parser := config.NewInputParser()

			var profile *domain.UserProfile
			if profileID, _ := cmd.Flags().GetString("profile"); profileID != "" {
				appCfg, err := loadAppConfig()
				if err != nil {
					log.Fatal(err)
				}
				st, err := openStore(appCfg)
				if err != nil {
					log.Fatal(err)
				}
				profile, err = st.Load(profileID)
				if err != nil {
					log.Fatal(err)
				}
				if profile == nil {
					log.Fatalf("no stored profile for %q", profileID)
				}
			}

			configData, err := parser.LoadFromFileWithProfile(args[0], profile)
			if err != nil {
				log.Fatal(err)
			}

			g := configData.Global
			fmt.Printf("Configuration is valid.\n")
			fmt.Printf("Timeline mode: %s\n", g.TimelineMode)
			fmt.Printf("Window: %s to %s\n",
				g.StartDate.Format("2006-01-02"), g.EndDate.Format("2006-01-02"))
			for _, scenario := range configData.Scenarios {
				fmt.Printf("Scenario %q", scenario.Name)
				if scenario.Rent != nil {
					fmt.Printf(": base rent %s/mo, rent growth kind %s",
						scenario.Rent.BaseMonthlyRent, scenario.Rent.RentGrowth.Rate.Kind())
				}
				fmt.Println()
			}
		},
	}
	cmd.Flags().String("profile", "", "stored profile id to merge defaults from")
	return cmd
}
