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
	"github.com/talentops/benchmatch/internal/workforce"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic employees.csv and jobs.csv",
	Run: func(cmd *cobra.Command, _ []string) {
		generate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Bool("employees-only", false, "generate only employees.csv")
	generateCmd.Flags().Bool("jobs-only", false, "generate only jobs.csv")
	generateCmd.Flags().Int64("seed", 0, "override the configured RNG seed")
}

func generate(cmd *cobra.Command) {
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

	seed := config.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetInt64("seed")
	}

	employeesOnly, _ := cmd.Flags().GetBool("employees-only")
	jobsOnly, _ := cmd.Flags().GetBool("jobs-only")
	if employeesOnly && jobsOnly {
		logger.Fatal("--employees-only and --jobs-only are mutually exclusive")
	}

	var employeeIDs []string

	if !jobsOnly {
		gcfg := config.Employees.GeneratorConfig
		gcfg.JobCount = config.Jobs.N

		employees, err := workforce.NewGenerator(gcfg, dicts, seed).Generate(config.Employees.N)
		if err != nil {
			logger.Fatal("generating employees", zap.Error(err))
		}

		path := filepath.Join(config.DataDir, "employees.csv")
		if err := employees.WriteCSV(path); err != nil {
			logger.Fatal("writing employees", zap.Error(err))
		}

		logger.Info("generated employees",
			zap.Int("count", employees.Len()),
			zap.Int64("seed", seed),
			zap.String("path", path),
		)
		employeeIDs = employees.IDs()
	}

	if !employeesOnly {
		if employeeIDs == nil {
			// Manager preferences need the employee IDs; reuse an existing
			// dataset when only jobs are regenerated.
			existing, err := workforce.ReadCSV(filepath.Join(config.DataDir, "employees.csv"))
			if err != nil {
				logger.Warn("no employees.csv found, jobs will carry no manager preferences", zap.Error(err))
			} else {
				employeeIDs = existing.IDs()
			}
		}

		// Offset keeps the job stream independent from the employee stream.
		jobs, err := project.NewGenerator(config.Jobs.GeneratorConfig, dicts, seed+1).Generate(config.Jobs.N, employeeIDs)
		if err != nil {
			logger.Fatal("generating jobs", zap.Error(err))
		}

		path := filepath.Join(config.DataDir, "jobs.csv")
		if err := jobs.WriteCSV(path); err != nil {
			logger.Fatal("writing jobs", zap.Error(err))
		}

		logger.Info("generated jobs",
			zap.Int("count", jobs.Len()),
			zap.Int64("seed", seed+1),
			zap.String("path", path),
		)
	}
}
