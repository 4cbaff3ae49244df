package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/store"
)

// identity commands manage the roster of known full names. Only provisioned
// names can be claimed during intake.
func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage the roster of known names",
	}

	cmd.AddCommand(newIdentityAddCmd())
	cmd.AddCommand(newIdentityListCmd())

	return cmd
}

func openIdentityStore() (*store.IdentityStore, func() error, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(paths.DatabasePath(&cfg), log)
	if err != nil {
		return nil, nil, err
	}
	return store.NewIdentityStore(db), db.Close, nil
}

func newIdentityAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <full name>",
		Short: "Provision a full name so a user can claim it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identities, closeDB, err := openIdentityStore()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := identities.AddName(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Added %q\n", args[0])
			return nil
		},
	}
}

func newIdentityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known names and their bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identities, closeDB, err := openIdentityStore()
			if err != nil {
				return err
			}
			defer closeDB()

			list, err := identities.ListNames(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("no names provisioned")
				return nil
			}
			for _, ident := range list {
				line := ident.FullName
				if ident.UserID != nil {
					line += fmt.Sprintf("  (bound to %d", *ident.UserID)
					if ident.Phone != "" {
						line += ", " + ident.Phone
					}
					line += ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
