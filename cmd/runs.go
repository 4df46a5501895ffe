package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/logger"
	"github.com/talentops/benchmatch/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List saved allocation runs, or show one run's assignments",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runs(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
}

func runs(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path := "benchmatch.db"
	if config.Store != nil && config.Store.Path != "" {
		path = config.Store.Path
	}

	db, err := store.Open(path)
	if err != nil {
		logger.Fatal("opening the run store", zap.Error(err))
	}
	defer db.Close()

	if len(args) == 1 {
		assignments, err := db.RunAssignments(ctx, args[0])
		if err != nil {
			logger.Fatal("loading run assignments", zap.String("run_id", args[0]), zap.Error(err))
		}

		fmt.Printf("%-10s %-10s %-20s %-12s %s\n", "EMPLOYEE", "JOB", "ROLE", "LEVEL", "SCORE")
		for _, a := range assignments {
			fmt.Printf("%-10s %-10s %-20s %-12s %.4f\n", a.EmployeeID, a.JobID, a.Role, a.Level, a.Score)
		}
		return
	}

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := db.ListRuns(ctx, limit)
	if err != nil {
		logger.Fatal("listing runs", zap.Error(err))
	}

	if len(list) == 0 {
		logger.Info("no saved runs", zap.String("store", path))
		return
	}

	fmt.Printf("%-36s %-20s %8s %8s %8s %10s %12s\n",
		"RUN", "CREATED", "SEATS", "FILLED", "BENCHED", "SCORE", "BENCH DAYS")
	for _, r := range list {
		fmt.Printf("%-36s %-20s %8d %8d %8d %10.2f %5d -> %d\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Seats,
			r.Assigned,
			r.Benched,
			r.TotalScore,
			r.BenchDaysBefore,
			r.BenchDaysAfter,
		)
	}
}
