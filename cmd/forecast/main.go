package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"smarttrader/internal/app"
	"smarttrader/internal/config"
	"smarttrader/internal/forecast"
	"smarttrader/internal/model"
	"smarttrader/internal/recorder"
	"smarttrader/internal/strategy"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDate    string
	flagTicker  string
	flagJSON    bool
	flagRecord  bool
	flagTimeout time.Duration
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "forecast",
		Short:         "Run the price forecast pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagDate, "date", "", "as-of date (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&flagTicker, "ticker", "", "ticker symbol (default from config)")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", time.Minute, "overall deadline")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast the business days after --date and print the summary",
		RunE:  runPredict,
	}
	predictCmd.Flags().BoolVar(&flagJSON, "json", false, "print the full forecast as JSON")
	predictCmd.Flags().BoolVar(&flagRecord, "record", false, "store the prediction in the history database")

	actualCmd := &cobra.Command{
		Use:   "actual",
		Short: "Print realised bars for the days a forecast from --date covers",
		RunE:  runActual,
	}
	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Print predicted closes next to realised closes",
		RunE:  runCompare,
	}
	root.AddCommand(predictCmd, actualCmd, compareCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *forecast.Predictor, context.Context, context.CancelFunc, error) {
	if flagDate == "" {
		return nil, nil, nil, nil, fmt.Errorf("--date is required")
	}
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("config validation: %w", err)
	}
	p, err := app.NewPredictor(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	return cfg, p, ctx, cancel, nil
}

func runPredict(cmd *cobra.Command, _ []string) error {
	cfg, p, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	fc, err := p.Predict(ctx, flagTicker, flagDate)
	if err != nil {
		return err
	}
	sum := strategy.Summarize(fc)

	if flagRecord {
		rec := app.OpenRecorder(cfg)
		defer rec.Close()
		if err := rec.RecordPrediction(recorder.NewRecord(recorder.OriginCLI, p.ModelName(), fc, sum)); err != nil {
			log.Printf("[ERROR] record prediction: %v", err)
		}
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Ticker   string                `json:"ticker"`
			AsOf     string                `json:"as_of"`
			Forecast []model.ForecastEntry `json:"forecast"`
			Summary  *model.Summary        `json:"summary"`
		}{fc.Ticker, fc.AsOf.Format(model.DateLayout), fc.Entries, sum})
	}
	fmt.Fprintf(out, "%s as of %s (model %s)\n", fc.Ticker, fc.AsOf.Format(model.DateLayout), p.ModelName())
	fmt.Fprintf(out, "%-10s %10s %10s %10s %10s  %s\n", "date", "open", "high", "low", "close", "label")
	for i, e := range fc.Entries {
		fmt.Fprintf(out, "%-10s %10.2f %10.2f %10.2f %10.2f  %s\n",
			e.Date.Format(model.DateLayout), e.Open, e.High, e.Low, e.Close, sum.Strategy[i].Label)
	}
	fmt.Fprintf(out, "avg %.2f  high %.2f  low %.2f\n", sum.Avg, sum.High, sum.Low)
	return nil
}

func runActual(cmd *cobra.Command, _ []string) error {
	_, p, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	bars, err := p.Actual(ctx, flagTicker, flagDate)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(bars) == 0 {
		fmt.Fprintln(out, "no realised bars yet")
		return nil
	}
	for _, b := range bars {
		fmt.Fprintf(out, "%s %10.2f %10.2f %10.2f %10.2f\n",
			b.Date.Format(model.DateLayout), b.Open, b.High, b.Low, b.Close)
	}
	return nil
}

func runCompare(cmd *cobra.Command, _ []string) error {
	_, p, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	fc, err := p.Predict(ctx, flagTicker, flagDate)
	if err != nil {
		return err
	}
	bars, err := p.Actual(ctx, flagTicker, flagDate)
	if err != nil {
		return err
	}
	byDate := make(map[string]model.Bar, len(bars))
	for _, b := range bars {
		byDate[b.Date.Format(model.DateLayout)] = b
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %10s %10s %10s\n", "date", "predicted", "actual", "diff")
	for _, e := range fc.Entries {
		d := e.Date.Format(model.DateLayout)
		if b, ok := byDate[d]; ok {
			fmt.Fprintf(out, "%-10s %10.2f %10.2f %+10.2f\n", d, e.Close, b.Close, b.Close-e.Close)
		} else {
			fmt.Fprintf(out, "%-10s %10.2f %10s %10s\n", d, e.Close, "-", "-")
		}
	}
	return nil
}
