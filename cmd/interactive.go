package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"revolut-sepa-converter/internal/output"
	"revolut-sepa-converter/internal/settings"
)

const (
	actionPayments  = "payments"
	actionStatement = "statement"
	actionSetup     = "setup"
	actionExit      = "exit"
)

func runInteractive(ctx context.Context, logger *log.Logger, store *settings.Store) error {
	for {
		action := actionStatement
		err := huh.NewSelect[string]().
			Title("Revolut SEPA converter").
			Options(
				huh.NewOption("Convert from pain.001 (payment batch CSV)", actionPayments),
				huh.NewOption("Convert to camt.053 (statement XML)", actionStatement),
				huh.NewOption("Setup", actionSetup),
				huh.NewOption("Exit", actionExit),
			).
			Value(&action).
			Run()
		if err != nil {
			return err
		}

		switch action {
		case actionExit:
			return nil
		case actionSetup:
			err = runSetup(store)
		case actionStatement:
			if store.Profile.Empty() {
				fmt.Println("No account holder profile yet, running setup first.")
				if err = runSetup(store); err != nil {
					break
				}
			}
			err = interactiveStatement(ctx, logger, store)
		case actionPayments:
			err = interactivePayments(ctx, logger, store)
		}

		switch {
		case err == nil:
		case ctx.Err() != nil:
			return err
		case errors.Is(err, huh.ErrUserAborted), errors.Is(err, errCancelled):
			fmt.Println("Cancelled")
		default:
			logger.Error("conversion failed", "err", err)
		}
	}
}

func interactiveStatement(ctx context.Context, logger *log.Logger, store *settings.Store) error {
	src, dst, err := pickFiles("Revolut ledger CSV", ".csv", ".xml")
	if err != nil {
		return err
	}
	cfg, err := loadSettings(store)
	if err != nil {
		return err
	}
	return convertStatement(ctx, logger, cfg, src, dst, false)
}

func interactivePayments(ctx context.Context, logger *log.Logger, store *settings.Store) error {
	src, dst, err := pickFiles("pain.001.001.03 document", ".xml", ".csv")
	if err != nil {
		return err
	}
	cfg, err := loadSettings(store)
	if err != nil {
		return err
	}
	return convertPayments(ctx, logger, cfg, src, dst, false)
}

// pickFiles asks for a source file and an output path, which defaults to the
// source with outExt.
func pickFiles(title, srcExt, outExt string) (string, string, error) {
	var src string
	err := huh.NewFilePicker().
		Title(title).
		CurrentDirectory(".").
		AllowedTypes([]string{srcExt}).
		Picking(true).
		Value(&src).
		Run()
	if err != nil {
		return "", "", err
	}

	dst := output.DefaultName(src, outExt)
	err = huh.NewInput().
		Title("Output file").
		Value(&dst).
		Validate(func(s string) error {
			switch strings.TrimSpace(s) {
			case "":
				return fmt.Errorf("output file is required")
			case src:
				return fmt.Errorf("output must differ from the source")
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", "", err
	}

	return src, strings.TrimSpace(dst), nil
}
