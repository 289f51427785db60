package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulso-app/pulso/internal/domain"
)

// ─── history ────────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [CELULAR]",
	Short: "Show transaction history, newest first",
	Long: `Show the immutable transaction history. With a CELULAR argument the
list is filtered to one phone number; without it the full ledger is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withServices(func(ctx context.Context, app *services) error {
		var recs []domain.TransactionRecord
		var err error
		if len(args) == 1 {
			recs, err = app.history.ByPhone(ctx, args[0])
		} else {
			recs, err = app.history.All(ctx)
		}
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(os.Stdout, "No transactions recorded.")
			return nil
		}
		for _, r := range recs {
			printRecord(r)
		}
		return nil
	})
}

func printRecord(r domain.TransactionRecord) {
	entity := r.NombreExperiencia
	if r.Tipo == domain.TxDescuento {
		entity = r.NombreProducto
	}
	fmt.Fprintf(os.Stdout, "%s  %-9s  %-8s  %8d  %-12s  %s",
		r.CreatedAt.Local().Format(time.DateTime), r.Tipo, r.Estado, r.Valor, r.Celular, entity)
	if r.MensajeError != "" {
		fmt.Fprintf(os.Stdout, "  [%s]", r.MensajeError)
	}
	fmt.Fprintln(os.Stdout)
}
