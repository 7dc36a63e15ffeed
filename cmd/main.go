package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"revolut-sepa-converter/internal/convert"
	"revolut-sepa-converter/internal/output"
	"revolut-sepa-converter/internal/payments"
	"revolut-sepa-converter/internal/settings"
)

var errCancelled = errors.New("cancelled by user")

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "sepa",
		ReportTimestamp: true,
	})
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			logger.Warn("unknown LOG_LEVEL, using info", "value", lvl)
		} else {
			logger.SetLevel(level)
		}
	}
	return logger
}

func main() {
	logger := newLogger()

	if err := godotenv.Load(); err != nil {
		logger.Debug("could not load .env file", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := settings.NewStore()
	if err != nil {
		fail(logger, fmt.Errorf("failed to open settings: %w", err))
	}

	args := os.Args[1:]
	if len(args) == 0 {
		err = runInteractive(ctx, logger, store)
	} else {
		switch args[0] {
		case "statement":
			err = runStatement(ctx, logger, store, args[1:])
		case "payments":
			err = runPayments(ctx, logger, store, args[1:])
		case "setup":
			err = runSetup(store)
		case "help", "-h", "--help":
			printUsage()
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
			printUsage()
			os.Exit(2)
		}
	}

	if errors.Is(err, errCancelled) || errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("Cancelled")
		return
	}
	if err != nil {
		fail(logger, err)
	}
}

func fail(logger *log.Logger, err error) {
	logger.Error("conversion failed", "err", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Revolut SEPA converter")
	fmt.Println("\nUsage:")
	fmt.Println("  revolut-sepa-converter                 interactive menu")
	fmt.Println("  revolut-sepa-converter <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  statement  Convert a Revolut ledger CSV into a camt.053.001.02 statement")
	fmt.Println("  payments   Convert a pain.001.001.03 document into a Revolut payment batch CSV")
	fmt.Println("  setup      Store the account holder profile")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun '<command> -h' for more information on a command.")
}

// loadSettings layers environment overrides on the stored profile.
func loadSettings(store *settings.Store) (settings.Settings, error) {
	return settings.FromProfile(store.Profile).FromEnv()
}

func runStatement(ctx context.Context, logger *log.Logger, store *settings.Store, args []string) error {
	fs := flag.NewFlagSet("statement", flag.ExitOnError)
	src := fs.String("s", "", "Revolut ledger CSV to convert")
	dst := fs.String("o", "", "camt.053 output file (defaults to the source with .xml)")
	strict := fs.Bool("strict", false, "reject ledgers spanning more than one month")
	force := fs.Bool("f", false, "overwrite the output file without asking")
	fs.Parse(args)

	if *src == "" {
		fs.Usage()
		return errors.New("-s is required")
	}
	if *dst == "" {
		*dst = output.DefaultName(*src, ".xml")
	}

	cfg, err := loadSettings(store)
	if err != nil {
		return err
	}
	if *strict {
		cfg.StrictPeriod = true
	}

	return convertStatement(ctx, logger, cfg, *src, *dst, *force)
}

func runPayments(ctx context.Context, logger *log.Logger, store *settings.Store, args []string) error {
	fs := flag.NewFlagSet("payments", flag.ExitOnError)
	src := fs.String("s", "", "pain.001.001.03 document to convert")
	dst := fs.String("o", "", "payment batch CSV (defaults to the source with .csv)")
	ibans := fs.String("i", "", "comma-separated personal IBANs, replaces the stored list")
	force := fs.Bool("f", false, "overwrite the output file without asking")
	fs.Parse(args)

	if *src == "" {
		fs.Usage()
		return errors.New("-s is required")
	}
	if *dst == "" {
		*dst = output.DefaultName(*src, ".csv")
	}

	cfg, err := loadSettings(store)
	if err != nil {
		return err
	}
	if *ibans != "" {
		cfg.PersonalIBANs = payments.ParseIBANList(*ibans)
	}

	return convertPayments(ctx, logger, cfg, *src, *dst, *force)
}

func convertStatement(ctx context.Context, logger *log.Logger, cfg settings.Settings, src, dst string, force bool) error {
	if err := confirmOverwrite(dst, force); err != nil {
		return err
	}

	res, err := convert.New(cfg, logger).Statement(ctx, src, dst)
	if err != nil {
		return err
	}

	fmt.Printf("Statement %s written to %s\n", res.ID, res.Path)
	fmt.Printf("  entries: %d\n", res.Entries)
	fmt.Printf("  opening: %s %s\n", res.Opening.Amount.StringFixed(2), res.Opening.Currency)
	fmt.Printf("  closing: %s %s\n", res.Closing.Amount.StringFixed(2), res.Closing.Currency)
	return nil
}

func convertPayments(ctx context.Context, logger *log.Logger, cfg settings.Settings, src, dst string, force bool) error {
	if err := confirmOverwrite(dst, force); err != nil {
		return err
	}

	res, err := convert.New(cfg, logger).Payments(ctx, src, dst)
	if err != nil {
		return err
	}

	fmt.Printf("Payment batch with %d payments written to %s\n", res.Rows, res.Path)
	return nil
}

func confirmOverwrite(dst string, force bool) error {
	if force || !output.Exists(dst) {
		return nil
	}

	overwrite := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", dst)).
		Affirmative("Overwrite").
		Negative("Cancel").
		Value(&overwrite).
		Run()
	if err != nil {
		return err
	}
	if !overwrite {
		return errCancelled
	}
	return nil
}

func runSetup(store *settings.Store) error {
	p := store.Profile
	personal := strings.Join(p.PersonalIBANs, ", ")

	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account holder").
				Value(&p.Party).
				Validate(required("account holder")),
			huh.NewInput().
				Title("Account IBAN").
				Value(&p.IBAN).
				Validate(required("IBAN")),
			huh.NewInput().
				Title("Address line 1").
				Value(&p.AddressLine1),
			huh.NewInput().
				Title("Address line 2").
				Value(&p.AddressLine2),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Personal IBANs").
				Description("Comma-separated creditor IBANs exported as individuals; all others are companies.").
				Value(&personal),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	p.PersonalIBANs = payments.ParseIBANList(strings.ReplaceAll(personal, "\n", ","))
	if err := store.Update(p); err != nil {
		return err
	}

	fmt.Printf("Settings saved to %s\n", store.Path())
	return nil
}
