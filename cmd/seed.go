package cmd

import (
	"fmt"
	"time"

	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/datasource/library"
	"github.com/grovetools/widgets/errors"
	"github.com/spf13/cobra"
)

var sampleTitles = []string{
	"Dune", "Sapiens", "The Hobbit", "Steve Jobs", "Cosmos",
	"Neuromancer", "Educated", "Mistborn", "Alan Turing", "The Gene",
}

// NewSeedCmd creates the seed command.
func NewSeedCmd() *cobra.Command {
	var database string
	var books int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the library database with sample books and rentals",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			path := database
			if path == "" {
				cfg, err := cli.LoadConfig(cli.GetOptions(cmd))
				if err != nil {
					return err
				}
				if cfg.Database == "" {
					return errors.InvalidInput("database", "no database in widgets.yml, pass --database")
				}
				path = databasePath(cfg)
			}

			store, err := library.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			now := time.Now()
			for i := 0; i < books; i++ {
				genre := library.Genres[i%len(library.Genres)].Key
				status := library.BookStatuses[(i/3)%len(library.BookStatuses)].Key
				title := sampleTitles[i%len(sampleTitles)]
				if i >= len(sampleTitles) {
					title = fmt.Sprintf("%s (copy %d)", title, i/len(sampleTitles)+1)
				}

				id, err := store.AddBook(ctx, library.Book{Title: title, Genre: genre, Status: status})
				if err != nil {
					return err
				}

				rented := now.AddDate(0, -(i % 6), -(i % 20))
				state := library.RentalStates[i%len(library.RentalStates)].Key
				rental := library.Rental{BookID: id, RentalDate: rented, DueDate: rented.AddDate(0, 0, 14), State: state}
				if state == "returned" {
					returned := rented.AddDate(0, 0, 7)
					rental.ReturnDate = &returned
				}
				if _, err := store.AddRental(ctx, rental); err != nil {
					return err
				}
			}

			logger.WithField("books", books).WithField("path", path).Info("Seeded library database")
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d books into %s\n", books, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&database, "database", "", "Database path (defaults to widgets.yml's database)")
	cmd.Flags().IntVarP(&books, "books", "n", 25, "Number of sample books")
	return cmd
}
