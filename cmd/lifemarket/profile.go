package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lifemarket/lifemarket/internal/domain"
	"github.com/lifemarket/lifemarket/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored user profiles",
	}
	cmd.AddCommand(profileSaveCmd(), profileShowCmd(), profileDeleteCmd(), profileListCmd())
	return cmd
}

func mustOpenStore() store.ProfileStore {
	appCfg, err := loadAppConfig()
	if err != nil {
		log.Fatal(err)
	}
	st, err := openStore(appCfg)
	if err != nil {
		log.Fatal(err)
	}
	return st
}

func profileSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [user-id] [profile-file]",
		Short: "Validate a profile YAML file and store it",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			userID, filename := args[0], args[1]

			data, err := os.ReadFile(filename)
			if err != nil {
				log.Fatalf("failed to read file %s: %v", filename, err)
			}
			profile := domain.DefaultUserProfile()
			if err := yaml.Unmarshal(data, &profile); err != nil {
				log.Fatalf("failed to parse YAML: %v", err)
			}
			if err := profile.Validate(); err != nil {
				log.Fatalf("profile validation failed: %v", err)
			}

			if err := mustOpenStore().Save(userID, &profile); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Saved profile %q\n", userID)
		},
	}
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Print a stored profile as YAML",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			profile, err := mustOpenStore().Load(args[0])
			if err != nil {
				log.Fatal(err)
			}
			if profile == nil {
				log.Fatalf("no stored profile for %q", args[0])
			}
			out, err := yaml.Marshal(profile)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Print(string(out))
		},
	}
}

func profileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Remove a stored profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := mustOpenStore().Delete(args[0]); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Deleted profile %q\n", args[0])
		},
	}
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profile ids",
		Run: func(cmd *cobra.Command, args []string) {
			ids, err := mustOpenStore().ListIDs()
			if err != nil {
				log.Fatal(err)
			}
			if len(ids) == 0 {
				fmt.Println("No profiles stored.")
				return
			}
			for _, id := range ids {
				fmt.Println(id)
			}
		},
	}
}
