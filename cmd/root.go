package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talentops/benchmatch/internal/matching"
	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

const (
	app = "benchmatch"
)

type Config struct {
	DataDir         string           `mapstructure:"data-dir"`
	DictionariesDir string           `mapstructure:"dictionaries-dir"`
	Seed            int64            `mapstructure:"seed"`
	Employees       *EmployeesConfig `mapstructure:"employees"`
	Jobs            *JobsConfig      `mapstructure:"jobs"`
	Graph           *GraphConfig     `mapstructure:"graph"`
	Embedding       *EmbeddingConfig `mapstructure:"embedding"`
	Matching        matching.Config  `mapstructure:"matching"`
	Optimizer       optimizer.Config `mapstructure:"optimizer"`
	Store           *StoreConfig     `mapstructure:"store"`
	AI              *AIConfig        `mapstructure:"ai"`
}

type EmployeesConfig struct {
	N                         int `mapstructure:"n"`
	workforce.GeneratorConfig `mapstructure:",squash"`
}

type JobsConfig struct {
	N                       int `mapstructure:"n"`
	project.GeneratorConfig `mapstructure:",squash"`
}

type GraphConfig struct {
	CategoryWeight float64 `mapstructure:"category-weight"`
}

type EmbeddingConfig struct {
	Dim int `mapstructure:"dim"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "benchmatch generates synthetic HR datasets and allocates employees to projects with minimal bench time",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is benchmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

// setDefaults makes every command runnable without a config file.
func setDefaults() {
	viper.SetDefault("data-dir", ".")
	viper.SetDefault("seed", 42)

	viper.SetDefault("employees.n", 50)
	viper.SetDefault("employees.skills-per-employee.min", 4)
	viper.SetDefault("employees.skills-per-employee.max", 10)
	viper.SetDefault("employees.cost-rate-lakhs.min", 8)
	viper.SetDefault("employees.cost-rate-lakhs.max", 60)
	viper.SetDefault("employees.bench-days-max", 180)
	viper.SetDefault("employees.remote-probability", 0.4)
	viper.SetDefault("employees.busy-probability", 0.35)

	viper.SetDefault("jobs.n", 10)
	viper.SetDefault("jobs.duration-months.min", 3)
	viper.SetDefault("jobs.duration-months.max", 24)
	viper.SetDefault("jobs.budget-lakhs-inr.min", 50)
	viper.SetDefault("jobs.budget-lakhs-inr.max", 500)
	viper.SetDefault("jobs.min-experience-years.min", 0)
	viper.SetDefault("jobs.min-experience-years.max", 8)
	viper.SetDefault("jobs.skills-per-job-max", 6)
	viper.SetDefault("jobs.hr-requirements-people-max", 8)
	viper.SetDefault("jobs.remote-mix-probability", 0.3)
	viper.SetDefault("jobs.manager-pref-probability", 0.3)
	viper.SetDefault("jobs.priority-weights", map[string]float64{
		"low": 0.3, "medium": 0.35, "high": 0.25, "critical": 0.1,
	})

	viper.SetDefault("graph.category-weight", 1.0)
	viper.SetDefault("embedding.dim", 128)

	viper.SetDefault("matching.top-k", 10)
	viper.SetDefault("matching.min-score", 0.0)
	viper.SetDefault("matching.availability-grace-days", 14)
	viper.SetDefault("matching.weights.skills", 0.35)
	viper.SetDefault("matching.weights.coverage", 0.30)
	viper.SetDefault("matching.weights.experience", 0.15)
	viper.SetDefault("matching.weights.location", 0.10)
	viper.SetDefault("matching.weights.availability", 0.10)

	viper.SetDefault("optimizer.bench-weight", 0.1)
	viper.SetDefault("optimizer.bench-cap-days", 120)
	viper.SetDefault("optimizer.overqualification-penalty", 3.0)
	viper.SetDefault("optimizer.priority-bonus", map[string]float64{
		"low": 0, "medium": 2, "high": 5, "critical": 10,
	})

	viper.SetDefault("store.path", "benchmatch.db")

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults cover everything, so a missing config file is fine unless one
	// was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
