package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Saro259/TalentMatch-AI/internal/ai"
	"github.com/Saro259/TalentMatch-AI/internal/ai/gemini"
	"github.com/Saro259/TalentMatch-AI/internal/catalog"
	"github.com/Saro259/TalentMatch-AI/internal/logger"
	"github.com/Saro259/TalentMatch-AI/internal/matching"
	"github.com/Saro259/TalentMatch-AI/internal/pdf"
	"github.com/Saro259/TalentMatch-AI/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowReport    = "Show the match report"
	PromptMatchesToFile = "Dump matches to file"
	PromptExit          = "Exit"

	apiKeyEnv = "GEMINI_API_KEY"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptMatchesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match the resume against the job catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without prompting")
	runCmd.Flags().StringP("catalog", "c", "", "path to the job catalog csv file (plain or gzipped)")
	runCmd.Flags().StringP("resume", "r", "", "path to the resume pdf file")
	runCmd.Flags().IntP("top-n", "n", 0, "keep only the best N matches. Default is unset.")
	runCmd.Flags().Float64P("min-score", "m", 0, "drop matches scoring below the threshold")

	viper.BindPFlag("catalog", runCmd.Flags().Lookup("catalog"))
	viper.BindPFlag("resume", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("match.top-n", runCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("match.min-score", runCmd.Flags().Lookup("min-score"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	lg.Info("starting the talentmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	lg.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		config = &Config{}
	}

	if strings.TrimSpace(config.Catalog) == "" {
		lg.Fatal("job catalog path is required",
			zap.String("hint", "set the 'catalog' key in the configuration file or pass --catalog"),
		)
	}

	if strings.TrimSpace(config.Resume) == "" {
		lg.Fatal("resume path is required",
			zap.String("hint", "set the 'resume' key in the configuration file or pass --resume"),
		)
	}

	catalogLogger := logger.WithStage(lg, "catalog")

	dataset, err := catalog.LoadFile(config.Catalog)
	if err != nil {
		catalogLogger.Fatal("loading the job catalog", zap.Error(err), zap.String("path", config.Catalog))
	}

	catalogLogger.Info("job catalog loaded", zap.Int("count", dataset.Len()))

	if dataset.Len() == 0 {
		lg.Info("exiting", zap.String("reason", "the job catalog is empty"))
		return
	}

	resumeLogger := logger.WithStage(lg, "resume")

	resumeText, err := pdf.ExtractFile(config.Resume)
	if err != nil {
		resumeLogger.Fatal("extracting resume text", zap.Error(err), zap.String("path", config.Resume))
	}

	resumeLogger.Info("resume text extracted", zap.Int("length", len(resumeText)))

	analyzer, err := newAnalyzer(ctx, config.AI, lg)
	if err != nil {
		lg.Fatal("building the resume analyzer", zap.Error(err))
	}

	profile, err := analyzer.Analyze(ctx, resumeText)
	if err != nil {
		lg.Fatal("analyzing the resume", zap.Error(err))
	}

	resumeLogger.Info("resume analyzed",
		zap.Int("skills", len(profile.Skills)),
		zap.Int("qualifications", len(profile.Qualifications)),
	)

	engine, err := matching.NewEngine(matchWeights(config.Match), logger.WithStage(lg, "matching"))
	if err != nil {
		lg.Fatal("building the matching engine", zap.Error(err))
	}

	results, err := engine.Match(profile, dataset, matchOptions(config.Match))
	if err != nil {
		lg.Fatal("matching failed", zap.Error(err))
	}

	if results.Len() == 0 {
		lg.Info("exiting", zap.String("reason", "no postings matched"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := handleAction(PromptShowReport, lg, results, dataset); err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		lg.Info("current list of matches", zap.Int("count", results.Len()))

		_, action, err := prompt.Run()
		if err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, lg, results, dataset); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			lg.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, results *matching.Results, dataset *catalog.Dataset) error {
	switch action {
	case PromptShowReport:
		pretty, _ := json.MarshalIndent(results.Report(dataset), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", results.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := results.DumpToTmpFile(dataset)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newAnalyzer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Analyzer, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   apiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, apiKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model)
	if err != nil {
		return nil, err
	}

	analyzerLogger := logger.WithAnalyzer(log, "gemini", generator.Model())

	return gemini.NewAnalyzer(generator, analyzerLogger, gcfg.MaxRetries, gcfg.MaxLogLength), nil
}

func matchWeights(cfg *MatchConfig) matching.Weights {
	if cfg == nil || cfg.Weights == nil {
		return matching.DefaultWeights()
	}

	return *cfg.Weights
}

func matchOptions(cfg *MatchConfig) *matching.Options {
	if cfg == nil {
		return nil
	}

	return &matching.Options{
		TopN:     cfg.TopN,
		MinScore: cfg.MinScore,
	}
}
