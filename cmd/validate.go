package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/logger"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/validate"
	"github.com/talentops/benchmatch/internal/workforce"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate employees.csv and jobs.csv against the dictionaries",
	Run: func(cmd *cobra.Command, _ []string) {
		runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Int("max-report", 20, "maximum number of violations to print")
}

func runValidate(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	dicts, err := dictionary.Load(config.DictionariesDir)
	if err != nil {
		logger.Fatal("loading dictionaries", zap.Error(err))
	}

	employees, err := workforce.ReadCSV(filepath.Join(config.DataDir, "employees.csv"))
	if err != nil {
		logger.Fatal("reading employees", zap.Error(err))
	}

	jobs, err := project.ReadCSV(filepath.Join(config.DataDir, "jobs.csv"))
	if err != nil {
		logger.Fatal("reading jobs", zap.Error(err))
	}

	ds := &validate.Dataset{Dicts: dicts, Employees: employees, Jobs: jobs}
	report := validate.Run(validate.DefaultRules(), ds, logger)

	if report.OK() {
		logger.Info("dataset is valid", zap.Int("records", report.Records))
		return
	}

	maxReport, _ := cmd.Flags().GetInt("max-report")
	for i, v := range report.Violations {
		if maxReport > 0 && i >= maxReport {
			logger.Warn("more violations omitted", zap.Int("omitted", len(report.Violations)-maxReport))
			break
		}
		logger.Warn("violation",
			zap.String("record", v.RecordID),
			zap.String("rule", v.Rule),
			zap.String("message", v.Message),
		)
	}

	logger.Fatal("dataset is invalid",
		zap.Int("records", report.Records),
		zap.Int("violations", len(report.Violations)),
	)
}
