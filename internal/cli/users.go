package cli

import (
	"context"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ergosanitas/internal/domain/user"
	"ergosanitas/internal/wire"
)

// UsersCmd returns the users command
func UsersCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage workstation accounts",
	}
	cmd.AddCommand(usersListCmd(st))
	cmd.AddCommand(usersCreateCmd(st))
	return cmd
}

func usersListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts (seeds the four defaults on first use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				defer w.Flush()
				printfTo(w, "ID\tUSERNAME\tROLE\tNAME\tACTIVE\n")
				for _, u := range rt.Module.GetUsers(ctx) {
					active := okMark("yes")
					if !u.Active {
						active = warnMark("no")
					}
					printfTo(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.Name, active)
				}
				return nil
			})
		},
	}
}

func usersCreateCmd(st *state) *cobra.Command {
	var draft user.Draft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withRuntime(cmd.Context(), func(ctx context.Context, rt *wire.Runtime) error {
				u, err := rt.Module.CreateUser(ctx, draft)
				if err != nil {
					return err
				}
				printf(cmd, "%s %s (%s) as %s\n", okMark("created"), u.Username, u.ID, u.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&draft.Username, "username", "", "login name (unique)")
	cmd.Flags().StringVar(&draft.Password, "password", "", "password")
	cmd.Flags().StringVar(&draft.Role, "role", "", "one of admin, brigada, enfermeria, liga")
	cmd.Flags().StringVar(&draft.Name, "name", "", "display name")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("role")
	return cmd
}
