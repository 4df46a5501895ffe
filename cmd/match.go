package cmd

import (
	"context"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/embedding"
	"github.com/talentops/benchmatch/internal/logger"
	"github.com/talentops/benchmatch/internal/matching"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/skillgraph"
	"github.com/talentops/benchmatch/internal/workforce"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidate employees for every job",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("similar", "", "report employees most similar to the given employee id instead of job matches")
}

func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	_, employees, jobs, matcher := buildMatcher(config, logger)

	if similarTo, _ := cmd.Flags().GetString("similar"); similarTo != "" {
		target := employees.FindByID(similarTo)
		if target == nil {
			logger.Fatal("employee not found", zap.String("employee_id", similarTo))
		}

		for _, n := range matcher.SimilarEmployees(target, employees, config.Matching.TopK) {
			fields := []zap.Field{
				zap.String("employee_id", n.EmployeeID),
				zap.Float64("similarity", n.Similarity),
			}
			if e := employees.FindByID(n.EmployeeID); e != nil {
				fields = append(fields,
					zap.String("name", e.Name),
					zap.String("role", e.Role),
					zap.String("level", e.Level),
				)
			}
			logger.Info("similar employee", fields...)
		}
		return
	}

	matches, err := matcher.RankAll(ctx, jobs, employees)
	if err != nil {
		logger.Fatal("ranking matches", zap.Error(err))
	}

	path := filepath.Join(config.DataDir, "matches.csv")
	if err := matches.WriteCSV(path); err != nil {
		logger.Fatal("writing matches", zap.Error(err))
	}

	logger.Info("wrote matches",
		zap.Int("count", matches.Len()),
		zap.Int("jobs", jobs.Len()),
		zap.String("path", path),
	)
}

// buildMatcher loads the dataset and assembles the graph, embeddings and
// matcher shared by the match and allocate commands.
func buildMatcher(config *Config, logger *zap.Logger) (*dictionary.Dictionaries, *workforce.Employees, *project.Jobs, *matching.Matcher) {
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

	categoryWeight := skillgraph.DefaultCategoryWeight
	if config.Graph != nil {
		categoryWeight = config.Graph.CategoryWeight
	}
	graph, err := skillgraph.Build(dicts, categoryWeight)
	if err != nil {
		logger.Fatal("building skill graph", zap.Error(err))
	}

	dim := embedding.DefaultDim
	if config.Embedding != nil {
		dim = config.Embedding.Dim
	}
	vec, err := embedding.NewVectorizer(dim, graph, dicts)
	if err != nil {
		logger.Fatal("building vectorizer", zap.Error(err))
	}

	matcher, err := matching.NewMatcher(config.Matching, vec, graph, logger)
	if err != nil {
		logger.Fatal("building matcher", zap.Error(err))
	}

	logger.Debug("matcher assembled",
		zap.Int("employees", employees.Len()),
		zap.Int("jobs", jobs.Len()),
		zap.Int("graph_skills", graph.Size()),
		zap.Int("embedding_dim", vec.Dim()),
	)

	return dicts, employees, jobs, matcher
}
