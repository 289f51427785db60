package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// ─── catalog ────────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(experienceAddCmd)
	catalogCmd.AddCommand(productAddCmd)
	catalogCmd.AddCommand(galleryAddCmd)
	catalogCmd.AddCommand(catalogListCmd)

	productAddCmd.Flags().Int64("cantidad", 0, "Opening inventory count")
	galleryAddCmd.Flags().String("descripcion", "", "Work description")
	galleryAddCmd.Flags().String("video-url", "", "Hosted video URL")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage priced entities",
}

var experienceAddCmd = &cobra.Command{
	Use:   "add-experience NOMBRE VALOR",
	Short: "Register a recharge experience",
	Args:  cobra.ExactArgs(2),
	RunE:  runExperienceAdd,
}

func runExperienceAdd(cmd *cobra.Command, args []string) error {
	valor, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("VALOR must be an integer: %w", err)
	}
	return withServices(func(ctx context.Context, app *services) error {
		e, err := app.catalog.CreateExperience(ctx, args[0], valor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created experience %s (%s) valor %d\n", e.Nombre, e.ID, e.Valor)
		return nil
	})
}

var productAddCmd = &cobra.Command{
	Use:   "add-product NOMBRE VALOR",
	Short: "Register a product with inventory",
	Args:  cobra.ExactArgs(2),
	RunE:  runProductAdd,
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	valor, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("VALOR must be an integer: %w", err)
	}
	cantidad, _ := cmd.Flags().GetInt64("cantidad")
	return withServices(func(ctx context.Context, app *services) error {
		p, err := app.catalog.CreateProduct(ctx, args[0], valor, cantidad)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created product %s (%s) valor %d cantidad %d\n", p.Nombre, p.ID, p.Valor, p.Cantidad)
		return nil
	})
}

var galleryAddCmd = &cobra.Command{
	Use:   "add-gallery NOMBRE",
	Short: "Register a gallery work",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryAdd,
}

func runGalleryAdd(cmd *cobra.Command, args []string) error {
	descripcion, _ := cmd.Flags().GetString("descripcion")
	videoURL, _ := cmd.Flags().GetString("video-url")
	return withServices(func(ctx context.Context, app *services) error {
		g, err := app.catalog.CreateGalleryWork(ctx, args[0], descripcion, videoURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created gallery work %s (%s)\n", g.Nombre, g.ID)
		return nil
	})
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog entities",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	return withServices(func(ctx context.Context, app *services) error {
		experiences, err := app.catalog.ListExperiences(ctx)
		if err != nil {
			return err
		}
		products, err := app.catalog.ListProducts(ctx)
		if err != nil {
			return err
		}
		works, err := app.catalog.ListGalleryWorks(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Experiences (%d):\n", len(experiences))
		for _, e := range experiences {
			fmt.Fprintf(os.Stdout, "  %-36s  valor %8d  %s\n", e.ID, e.Valor, e.Nombre)
		}
		fmt.Fprintf(os.Stdout, "Products (%d):\n", len(products))
		for _, p := range products {
			fmt.Fprintf(os.Stdout, "  %-36s  valor %8d  cantidad %5d  %s\n", p.ID, p.Valor, p.Cantidad, p.Nombre)
		}
		fmt.Fprintf(os.Stdout, "Gallery works (%d):\n", len(works))
		for _, g := range works {
			fmt.Fprintf(os.Stdout, "  %-36s  donaciones %8d  %s\n", g.ID, g.Donaciones, g.Nombre)
		}
		return nil
	})
}
