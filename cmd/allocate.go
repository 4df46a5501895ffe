package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/ai"
	"github.com/talentops/benchmatch/internal/ai/gemini"
	"github.com/talentops/benchmatch/internal/allocation"
	"github.com/talentops/benchmatch/internal/logger"
	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/secrets"
	"github.com/talentops/benchmatch/internal/store"
	"github.com/talentops/benchmatch/internal/workforce"
)

const (
	PromptYes              = "Yes"
	PromptNo               = "No"
	PromptReportByProject  = "Report by project"
	PromptAllocationToFile = "Dump allocation to file"
)

var errExit = errors.New("exit requested")

var allocatePrompt = promptui.Select{
	Label: "Approve this allocation?",
	Items: []string{PromptYes, PromptNo, PromptReportByProject, PromptAllocationToFile},
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Match, optimize and approve an employee-to-project allocation",
	Run: func(cmd *cobra.Command, _ []string) {
		allocate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().BoolP("auto-approve", "y", false, "persist the allocation without asking for confirmation")
}

func allocate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the allocation", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	dicts, employees, jobs, matcher := buildMatcher(config, logger)

	matches, err := matcher.RankAll(ctx, jobs, employees)
	if err != nil {
		logger.Fatal("ranking matches", zap.Error(err))
	}

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no feasible matches found"))
		return
	}

	opt := optimizer.New(config.Optimizer, dicts, logger)
	alloc, err := opt.Solve(jobs, employees, matches)
	if err != nil {
		logger.Fatal("solving the allocation", zap.Error(err))
	}

	if len(alloc.Assignments) == 0 {
		logger.Info("exiting", zap.String("reason", "no assignments survived the optimizer"))
		return
	}

	explainAssignments(ctx, config, alloc, employees, jobs, logger)

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	for {
		action := PromptYes
		if !autoApprove {
			var err error
			_, action, err = allocatePrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(ctx, action, config, alloc, employees, jobs, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, config *Config, alloc *optimizer.Allocation, employees *workforce.Employees, jobs *project.Jobs, logger *zap.Logger) error {
	switch action {
	case PromptYes:
		if err := persistRun(ctx, config, alloc, employees.Len(), jobs.Len(), logger); err != nil {
			return err
		}

		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		path := filepath.Join(dataDir, "allocation.csv")
		if err := allocation.WriteCSV(alloc, jobs, employees, path); err != nil {
			return fmt.Errorf("writing the allocation export: %w", err)
		}
		logger.Info("allocation exported", zap.String("path", path))

		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByProject:
		pretty, _ := json.MarshalIndent(allocation.ReportByProject(alloc, jobs, employees), "", "  ")
		logger.Info(string(pretty), zap.Int("assignments", len(alloc.Assignments)))
		return nil
	case PromptAllocationToFile:
		filename, err := allocation.DumpToTmpFile(alloc)
		if err != nil {
			return fmt.Errorf("dump allocation to file: %w", err)
		}
		logger.Info("dumping allocation to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func persistRun(ctx context.Context, config *Config, alloc *optimizer.Allocation, employees, jobs int, logger *zap.Logger) error {
	path := "benchmatch.db"
	if config.Store != nil && config.Store.Path != "" {
		path = config.Store.Path
	}

	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening the run store: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, alloc, employees, jobs)
	if err != nil {
		return fmt.Errorf("saving the run: %w", err)
	}

	logger.Info("allocation approved and saved",
		zap.String("run_id", runID),
		zap.Int("assignments", len(alloc.Assignments)),
		zap.String("store", path),
	)
	return nil
}

// explainAssignments attaches AI-written rationales when the AI section is
// enabled. Failures are logged and skipped so the allocation flow never
// depends on the model.
func explainAssignments(ctx context.Context, config *Config, alloc *optimizer.Allocation, employees *workforce.Employees, jobs *project.Jobs, logger *zap.Logger) {
	if config.AI == nil || !config.AI.Enabled {
		return
	}

	explainer, err := newExplainer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping assignment rationales", zap.Error(err))
		return
	}

	for _, a := range alloc.Assignments {
		rationale, err := explainer.Explain(ctx, a, employees.FindByID(a.EmployeeID), jobs.FindByID(a.JobID))
		if err != nil {
			logger.Warn("rationale failed",
				zap.String("job_id", a.JobID),
				zap.String("employee_id", a.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("assignment rationale",
			zap.String("job_id", a.JobID),
			zap.String("employee_id", a.EmployeeID),
			zap.String("summary", rationale.Summary),
			zap.Strings("risks", rationale.Risks),
		)
	}
}

func newExplainer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Explainer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries)
	if err != nil {
		return nil, err
	}

	explainerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewExplainer(generator, explainerLogger, cfg.Gemini.MaxLogLength), nil
}
