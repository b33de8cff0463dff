package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/bootstrap"
	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/logger"
	"github.com/Domenick1991/tourbooking/migrations"
	"github.com/urfave/cli/v2"
)

func loadApp(c *cli.Context) (*bootstrap.App, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return bootstrap.NewApp(c.Context, cfg, logr)
}

func check(ctx context.Context, app *bootstrap.App, applySQL bool, w io.Writer) error {
	cfg := app.Config
	if cfg.Database.URL == "" && cfg.Database.Host == "" {
		return fmt.Errorf("database is not configured: set DATABASE_URL or database.host")
	}
	fmt.Fprintf(w, "timezone\t%s\n", cfg.Booking.Timezone)

	tourList, err := app.Tours.List(ctx)
	if err != nil {
		return err
	}
	for _, t := range tourList {
		url := t.CheckoutURL
		if url == "" {
			url = "(not configured)"
		}
		fmt.Fprintf(w, "checkout %s\t%s\n", t.ID, url)
	}

	if applySQL {
		if _, err := app.Pool.Exec(ctx, migrations.Bookings); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		fmt.Fprintln(w, "schema\tapplied")
	}

	if err := app.Repository.Check(ctx); err != nil {
		return fmt.Errorf("bookings table is not reachable: %w", err)
	}
	fmt.Fprintln(w, "postgres\tok")

	if err := app.Cache.Ping(ctx); err != nil {
		fmt.Fprintf(w, "redis\t%v\n", err)
	} else {
		fmt.Fprintln(w, "redis\tok")
	}

	if app.Producer != nil {
		if err := app.Producer.CheckConnection(ctx); err != nil {
			fmt.Fprintf(w, "kafka\t%v\n", err)
		} else {
			fmt.Fprintln(w, "kafka\tok")
		}
	}
	return nil
}

// printOccupancy writes one line per booked date, earliest first.
func printOccupancy(w io.Writer, tour domain.Tour, counts map[string]int) {
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	fmt.Fprintf(w, "%s (capacity %d)\n", tour.ID, tour.MaxCapacity)
	for _, d := range dates {
		fmt.Fprintf(w, "%s\t%d booked\t%d left\n", d, counts[d], max(0, tour.MaxCapacity-counts[d]))
	}
}

func main() {
	app := &cli.App{
		Name:  "bookingctl",
		Usage: "Operate the tour booking store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML config",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "verify configuration and that the bookings table is reachable",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "apply-sql", Usage: "apply the bookings schema first"},
				},
				Action: func(c *cli.Context) error {
					a, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()

					return check(c.Context, a, c.Bool("apply-sql"), os.Stdout)
				},
			},
			{
				Name:      "availability",
				ArgsUsage: "<tour_id>",
				Usage:     "print booked guests per date",
				Action: func(c *cli.Context) error {
					a, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()

					tour, err := a.Tours.GetByID(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					result := a.Availability.Occupancy(c.Context, tour.ID)
					if result.Degraded {
						return fmt.Errorf("read occupancy: %w", result.Err)
					}
					printOccupancy(os.Stdout, *tour, result.Counts)
					return nil
				},
			},
			{
				Name:      "block",
				ArgsUsage: "<tour_id> <YYYY-MM-DD>",
				Usage:     "close spots on a date",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "guests", Usage: "spots to close; 0 closes all remaining"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.ShowSubcommandHelp(c)
					}
					a, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()

					b, err := a.Bookings.BlockDate(c.Context, c.Args().Get(0), c.Args().Get(1), c.Int("guests"))
					if err != nil {
						return err
					}
					fmt.Printf("%s\t%s\t%d spots blocked\n", b.Reference, domain.DateKey(b.Date), b.Guests)
					return nil
				},
			},
			{
				Name:  "sweep",
				Usage: "cancel stale pending bookings now",
				Action: func(c *cli.Context) error {
					a, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()

					expired, err := a.Bookings.ExpireStalePending(c.Context)
					if err != nil {
						return err
					}
					for _, b := range expired {
						fmt.Printf("%s\t%s\t%s\t%d\n", b.Reference, b.TourID, domain.DateKey(b.Date), b.Guests)
					}
					fmt.Printf("%d cancelled\n", len(expired))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
