package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"legal-insight-be/internal/bootstrap"
	"legal-insight-be/internal/config"
	"legal-insight-be/internal/tracer"
	"legal-insight-be/pkg/analytics/insight"
	"legal-insight-be/pkg/database"
	"legal-insight-be/pkg/lock"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"
)

var rootCmd = &cobra.Command{
	Use:           "analyze",
	Short:         "Run and inspect corpus embedding analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full analysis now and print its summary",
	Args:  cobra.NoArgs,
	RunE:  runAnalysis,
}

var latestCmd = &cobra.Command{
	Use:   "latest [analysis-type]",
	Short: "Print the latest stored result of one analysis type",
	Args:  cobra.ExactArgs(1),
	RunE:  showLatest,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(latestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		return nil, errors.New("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.WithLogLevel(gormlogger.Warn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return bootstrap.NewContainer(db, cfg), nil
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracer.InitTracer("legal-insight-analyze")
	defer shutdownTracer(context.Background())

	container, err := newContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	color.Cyan("Running corpus analysis...")
	res, err := container.AnalysisJobService.RunNow(ctx)
	if errors.Is(err, lock.ErrLocked) {
		color.Yellow("Another analysis run is in progress, try again later")
		return err
	}
	if err != nil {
		return err
	}

	color.Green("Run %s finished in %dms", res.RunId, res.DurationMs)
	fmt.Printf("  clauses:    %d\n", res.ClauseCount)
	fmt.Printf("  agreements: %d\n", res.AgreementCount)
	fmt.Printf("  clusters:   %d (iterations %d, converged %t)\n", res.K, res.Iterations, res.Converged)
	if res.OutlierCount > 0 {
		color.Yellow("  outliers:   %d", res.OutlierCount)
	} else {
		fmt.Printf("  outliers:   0\n")
	}

	row, err := container.AnalysisService.GetLatestByType(ctx, "insights")
	if err != nil {
		return err
	}
	var insights insight.InsightsData
	if err := json.Unmarshal(row.Data, &insights); err != nil {
		return fmt.Errorf("failed to decode insights: %w", err)
	}

	color.Cyan("\nInsights")
	for _, in := range insights.Insights {
		printer := color.New(color.FgWhite)
		switch in.Importance {
		case insight.ImportanceHigh:
			printer = color.New(color.FgRed, color.Bold)
		case insight.ImportanceMedium:
			printer = color.New(color.FgYellow)
		}
		printer.Printf("  [%s] %s\n", in.Importance, in.Title)
		fmt.Printf("      %s\n", in.Description)
	}
	return nil
}

func showLatest(cmd *cobra.Command, args []string) error {
	container, err := newContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	row, err := container.AnalysisService.GetLatestByType(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	color.Cyan("%s (run %s, %s)", row.Title, row.RunId, row.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println(row.Description)

	var pretty any
	if err := json.Unmarshal(row.Data, &pretty); err != nil {
		return err
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
