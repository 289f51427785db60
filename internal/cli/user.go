package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── user ───────────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userFindCmd)

	userCreateCmd.Flags().String("nombre", "", "Full name")
	userCreateCmd.Flags().String("celular", "", "Phone number (lookup key)")
	userCreateCmd.Flags().Int64("saldo", 0, "Opening balance")
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage event users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a user with an opening balance",
	RunE:  runUserCreate,
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	nombre, _ := cmd.Flags().GetString("nombre")
	celular, _ := cmd.Flags().GetString("celular")
	saldo, _ := cmd.Flags().GetInt64("saldo")

	return withServices(func(ctx context.Context, app *services) error {
		u, err := app.users.Create(ctx, domain.NewUserInput{
			Nombre:  nombre,
			Celular: celular,
			Saldo:   saldo,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created %s (%s)\n", u.Nombre, u.ID)
		fmt.Fprintf(os.Stdout, "  celular: %s\n  saldo:   %d\n  qr:      %s\n", u.Celular, u.Saldo, u.QRCodeValue)
		return nil
	})
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users, newest first",
	RunE:  runUserList,
}

func runUserList(cmd *cobra.Command, args []string) error {
	return withServices(func(ctx context.Context, app *services) error {
		users, err := app.users.List(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Fprintln(os.Stdout, "No users registered.")
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(os.Stdout, "%-36s  %-12s  saldo %8d  %s\n", u.ID, u.Celular, u.Saldo, u.Nombre)
		}
		return nil
	})
}

var userFindCmd = &cobra.Command{
	Use:   "find CELULAR",
	Short: "Resolve a phone number to a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserFind,
}

func runUserFind(cmd *cobra.Command, args []string) error {
	return withServices(func(ctx context.Context, app *services) error {
		u, err := app.users.FindByPhone(ctx, args[0])
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("no user with celular %s", args[0])
		}
		fmt.Fprintf(os.Stdout, "%s (%s)\n  celular: %s\n  saldo:   %d\n", u.Nombre, u.ID, u.Celular, u.Saldo)
		return nil
	})
}
