package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/config"
	"github.com/omerorhan/hedging-calculator/internal/country"
	"github.com/omerorhan/hedging-calculator/internal/logger"
	"github.com/omerorhan/hedging-calculator/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("hedgecalc", pflag.ContinueOnError)
	flags.String("amount", "", "transaction amount (foreign currency for a payable, domestic for a receivable)")
	flags.String("domestic", "", "domestic country, e.g. Norway")
	flags.String("foreign", "", "foreign country, e.g. Poland")
	flags.String("mode", "report", "report|payable|receivable|countries")
	flags.String("log-level", "", "log level (default LOG_LEVEL)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if err := viper.BindPFlags(flags); err != nil {
		return err
	}

	mode := viper.GetString("mode")
	if mode == "countries" {
		return printCountries(country.Default())
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	level := viper.GetString("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	lg, undo, err := logger.NewGlobal(level)
	if err != nil {
		return err
	}
	defer undo()

	calc, err := service.NewHedgeCalculator(append(cfg.ServiceOptions(), service.WithLogger(lg))...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := calc.Close(); cerr != nil {
			lg.Warn("closing calculator", zap.Error(cerr))
		}
	}()

	amount, err := decimal.NewFromString(viper.GetString("amount"))
	if err != nil {
		return fmt.Errorf("--amount: %w", err)
	}
	domestic, foreign := viper.GetString("domestic"), viper.GetString("foreign")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "report":
		report, err := calc.GenerateCombinedReport(ctx, amount, domestic, foreign)
		if err != nil {
			return err
		}
		fmt.Println(report)
		return nil
	case "payable":
		result, err := calc.CalculatePayable(ctx, amount, domestic, foreign)
		if err != nil {
			return err
		}
		return printJSON(result)
	case "receivable":
		result, err := calc.CalculateReceivable(ctx, amount, domestic, foreign)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		return fmt.Errorf("unknown --mode %q", mode)
	}
}

func printCountries(resolver *country.Resolver) error {
	for _, c := range resolver.Supported() {
		code, err := resolver.Currency(c)
		if err != nil {
			return err
		}
		fmt.Printf("%-16s %s\n", c, code)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
