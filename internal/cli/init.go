package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/db"
	"github.com/sageline/sage/internal/journal"
)

func newInitCmd() *cobra.Command {
	var email string
	var timezone string

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create your profile and journal database",
		Long: `Set up Sage: write a default config file to ~/.config/sage/config.toml
(if none exists) and create your user profile in the journal database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Write a default config once so the user has something to edit.
			cfgPath, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := config.Save(config.Default()); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Printf("Wrote default config to %s\n", cfgPath)
			}

			dbPath, err := config.DBPath()
			if err != nil {
				return err
			}
			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			store := journal.NewStore(database)

			if existing, err := store.FirstUser(); err == nil {
				fmt.Printf("Profile already exists: %s\n", existing.Name)
				return nil
			}

			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			}
			if name == "" {
				fmt.Print("Your name: ")
				reader := bufio.NewReader(os.Stdin)
				line, _ := reader.ReadString('\n')
				name = strings.TrimSpace(line)
			}
			if name == "" {
				return fmt.Errorf("a name is required")
			}

			tz := timezone
			if tz == "" {
				tz = "UTC"
			}

			user, err := store.CreateUser(journal.User{
				Name:     name,
				Email:    email,
				Timezone: tz,
			})
			if err != nil {
				return fmt.Errorf("create profile: %w", err)
			}

			fmt.Printf("Welcome, %s. Your journal lives at %s\n", user.Name, dbPath)
			fmt.Println("Try `sage habit add` or `sage chat` to get started.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address for your profile")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone name")

	return cmd
}
