// cmd/research-router/root.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"research-router/internal/common/config"
	"research-router/internal/common/llm"
	"research-router/internal/common/logger"
	"research-router/internal/common/observability"
	"research-router/internal/common/search"
	"research-router/internal/orchestrator"
	"research-router/internal/workflow"
)

// clients holds the collaborators built from configuration.
type clients struct {
	LLM        llm.Client
	GenericLLM llm.Client
	Search     search.Searcher
}

type clientFactory func(cfg *config.Config, log logger.Logger) (*clients, error)

func defaultClients(cfg *config.Config, log logger.Logger) (*clients, error) {
	chat, err := llm.NewOpenAI(cfg.APIs.LLM, "")
	if err != nil {
		return nil, fmt.Errorf("language model client: %w", err)
	}
	generic := chat
	if cfg.APIs.LLM.GenericModel != cfg.APIs.LLM.Model {
		generic, err = llm.NewOpenAI(cfg.APIs.LLM, cfg.APIs.LLM.GenericModel)
		if err != nil {
			return nil, fmt.Errorf("generic language model client: %w", err)
		}
	}
	return &clients{
		LLM:        chat,
		GenericLLM: generic,
		Search:     search.NewClient(cfg.APIs.Search, log),
	}, nil
}

type rootOptions struct {
	configFile string
	logLevel   string
	trace      bool
}

func newRootCmd(factory clientFactory) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "research-router [query]",
		Short: "Route a question to a research workflow and print the answer",
		Long: `research-router classifies a natural-language query as general, academic,
product or generic research, runs the matching workflow against the
configured language model and search provider, and prints the result.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, factory, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file (default is configs/config.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log every workflow transition")
	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, factory clientFactory, query string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}

	zapLog := logger.New(level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(ctx, observability.Options{
		ServiceName:  cfg.Observability.ServiceName,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	}, log)
	defer obs.Shutdown(context.Background())

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := serveMetrics(addr, log)
		defer srv.Close()
	}

	c, err := factory(cfg, log)
	if err != nil {
		return err
	}

	deps := orchestrator.Dependencies{
		Config:        cfg,
		LLM:           c.LLM,
		GenericLLM:    c.GenericLLM,
		Search:        c.Search,
		Logger:        log,
		Observability: obs,
	}
	if opts.trace {
		deps.Observer = func(s workflow.Step) {
			log.Info("workflow step", map[string]interface{}{
				"visit":       s.Visit,
				"from":        string(s.From),
				"to":          string(s.To),
				"decision":    string(s.Decision),
				"fetchResult": s.State.FetchResult,
				"response":    s.State.Response,
			})
		}
	}

	if query == "" {
		query = cfg.App.DefaultQuery
	}

	answer, err := orchestrator.Build(deps).Answer(ctx, query)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func serveMetrics(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Metrics server started", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return srv
}
