package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/config"
	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/services"
)

const version = "1.0.0"

type cliApp struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cliApp{}
	var debug bool

	root := &cobra.Command{
		Use:           "ranker",
		Short:         "Candidate insight and ranking tools",
		Long:          "Extract résumé text, synthesize candidate profiles, rank applicants and parse career pathways from the command line.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			log, err := logger.New(false, debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.extractCmd(),
		a.profileCmd(),
		a.rankCmd(),
		a.pathwayCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)

	return root
}

func (a *cliApp) extractor() services.TextExtractor {
	return services.NewTextExtractor(
		services.NewDocumentFetcher(a.cfg.Extraction.FetchTimeout, a.cfg.Extraction.MaxDocumentBytes, a.log),
		services.NewPDFParserService(),
		services.ExtractorOptions{
			BuildPhase: a.cfg.Extraction.BuildPhase(),
			PDFEnabled: a.cfg.Extraction.PDFEnabled,
		},
		a.log,
	)
}

func (a *cliApp) gemini(ctx context.Context) (services.GeminiService, error) {
	return services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:      a.cfg.Gemini.APIKey,
		Model:       a.cfg.Gemini.Model,
		EmbedModel:  a.cfg.Gemini.EmbedModel,
		CallTimeout: a.cfg.Gemini.CallTimeout,
	}, a.log)
}

// extractSource reads a local file or a URL.
func (a *cliApp) extractSource(ctx context.Context, source string) models.ExtractedText {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return a.extractor().ExtractFromURL(ctx, source)
	}
	return a.extractor().ExtractFile(source)
}

func (a *cliApp) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "extract <file-or-url>",
		Short:   "Extract plain text from a résumé",
		Args:    cobra.ExactArgs(1),
		Example: "  ranker extract ./resume.pdf\n  ranker extract https://cdn.example.com/cv.pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), a.extractSource(cmd.Context(), args[0]))
		},
	}
}

func (a *cliApp) profileCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "profile [file-or-url]",
		Short: "Synthesize a structured candidate profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && len(args) == 0 {
				return fmt.Errorf("provide a résumé file, a URL or --text")
			}
			if text == "" {
				text = a.extractSource(cmd.Context(), args[0]).Text
			}

			gemini, err := a.gemini(cmd.Context())
			if err != nil {
				return err
			}

			profile, err := services.NewProfileSynthesizer(gemini, a.log).Synthesize(cmd.Context(), text)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), profile)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "résumé text to synthesize instead of a document")

	return cmd
}

func (a *cliApp) rankCmd() *cobra.Command {
	var xlsxPath string
	var similarity bool

	cmd := &cobra.Command{
		Use:   "rank <request.json>",
		Short: "Rank the candidates of a job",
		Long:  "Reads a ranking request ({\"job\": ..., \"candidates\": [...]}) and prints the ranked applicants.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read request: %w", err)
			}

			var req models.RankingRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to decode request: %w", err)
			}
			if err := services.ValidateRankingRequest(req); err != nil {
				return err
			}

			gemini, err := a.gemini(cmd.Context())
			if err != nil {
				return err
			}

			deps := services.RankerDeps{
				Extractor: a.extractor(),
				Insights:  services.NewInsightGenerator(gemini, a.log),
				Scorer:    services.NewRankingScorer(gemini, a.log),
			}
			if similarity || a.cfg.Ranking.SimilarityEnabled {
				deps.Similarity = services.NewSimilarityScorer(gemini)
			}
			ranker := services.NewCandidateRanker(deps, services.RankerOptions{
				Concurrency:      a.cfg.Ranking.Concurrency,
				CandidateTimeout: a.cfg.Ranking.CandidateTimeout,
			}, a.log)

			results, err := ranker.Rank(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("ranking interrupted: %w", err)
			}

			if xlsxPath != "" {
				sheet, err := services.ExportRankingXLSX(req.Job, results)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, sheet, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
				}
			}

			return writeJSON(cmd.OutOrStdout(), models.RankingPreviewResponse{Job: req.Job, Applicants: results, Success: true})
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the ranking to this XLSX file")
	cmd.Flags().BoolVar(&similarity, "similarity", false, "attach embedding similarity to each applicant (also SIMILARITY_ENABLED)")

	return cmd
}

func (a *cliApp) pathwayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pathway",
		Short: "Career pathway tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a markdown career pathway into JSON (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read pathway: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), services.ParsePathway(string(raw)))
		},
	})

	var job models.JobRequirements
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a career pathway for a job title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(job.Title) == "" {
				return fmt.Errorf("--title is required")
			}

			gemini, err := a.gemini(cmd.Context())
			if err != nil {
				return err
			}

			pathways := services.NewPathwayService(
				gemini,
				services.NewCertificationSearcher(a.cfg.Pathway.SerpAPIKey, a.cfg.Pathway.SerpAPIURL, a.log),
				a.cfg.Gemini.MaxRetries,
				a.log,
			)
			pathway, err := pathways.Generate(cmd.Context(), job)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pathway)
		},
	}
	generate.Flags().StringVar(&job.Title, "title", "", "job title")
	generate.Flags().StringVar(&job.Description, "description", "", "job description")
	generate.Flags().StringSliceVar(&job.Requirements, "requirement", nil, "job requirement (repeatable)")
	cmd.AddCommand(generate)

	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
