// Command ghclient queries a few GitHub endpoints through the apiclient
// pipeline and prints the decoded results as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"golang.org/x/oauth2"

	"github.com/tjfontaine/apicore/internal/config"
	"github.com/tjfontaine/apicore/internal/github"
	"github.com/tjfontaine/apicore/internal/json"
	"github.com/tjfontaine/apicore/internal/logging"
	"github.com/tjfontaine/apicore/internal/storage"
	"github.com/tjfontaine/apicore/internal/storage/memory"
	"github.com/tjfontaine/apicore/internal/storage/sqlite"
	"github.com/tjfontaine/apicore/internal/telemetry"
	"github.com/tjfontaine/apicore/pkg/apiclient"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
	"github.com/tjfontaine/apicore/pkg/apiclient/transport"
)

type options struct {
	configPath string
	baseURL    string
	query      string
	page       int
	perPage    int
	users      bool
	history    int
	logPolicy  []string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("ghclient", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "config.yaml", "Configure File Path")
	fs.StringVar(&o.baseURL, "base-url", "", "API root, overrides client.base_url")
	fs.StringVar(&o.query, "query", github.DefaultQuery, "Repository search query")
	fs.IntVar(&o.page, "page", github.DefaultPage, "Page number")
	fs.IntVar(&o.perPage, "per-page", github.DefaultPerPage, "Results per page")
	fs.BoolVar(&o.users, "users", false, "List users instead of searching repositories")
	fs.IntVar(&o.history, "history", 0, "Print the N most recent recorded exchanges after the call")
	fs.StringSliceVar(&o.logPolicy, "log-policy", nil, "Pipeline log options (request,response_status,response_body,response_decode,error,cache|all|none|default)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		if e, ok := apierr.As(err); ok {
			log.Fatalf("Request failed (%s): %v", e.Kind, e)
		}
		log.Fatalf("ghclient: %v", err)
	}
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.Client.BaseURL = o.baseURL
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	policyNames := cfg.Log.Policy
	if o.logPolicy != nil {
		policyNames = o.logPolicy
	}
	policy, err := apiclient.ParseLogPolicy(policyNames)
	if err != nil {
		return err
	}

	pipelineOpts := []apiclient.Option{
		apiclient.WithLogger(logger),
		apiclient.WithLogPolicy(policy),
		apiclient.WithClassifier(github.Classify),
		apiclient.WithRequestIDHeader(cfg.Client.RequestIDHeader),
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(cfg.Tracing.ServiceName, logger, telemetry.WithWriter(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			telemetry.Shutdown(shutdownCtx, tp, logger)
		}()
		pipelineOpts = append(pipelineOpts, apiclient.WithTracerProvider(tp))
	}

	store, err := newStore(cfg.Recorder)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		pipelineOpts = append(pipelineOpts, apiclient.WithRecorder(store))
	}

	timeout, err := cfg.Client.TimeoutDuration()
	if err != nil {
		return err
	}
	httpOpts := []transport.HTTPOption{transport.WithUserAgent(cfg.Client.UserAgent)}
	if timeout > 0 {
		httpOpts = append(httpOpts, transport.WithTimeout(timeout))
	}
	if cfg.Client.PublicOnly {
		httpOpts = append(httpOpts, transport.WithPublicHostsOnly())
	}
	if cfg.Client.Token != "" {
		httpOpts = append(httpOpts, transport.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Client.Token,
			TokenType:   "Bearer",
		})))
	}

	pipeline := apiclient.New(transport.NewHTTP(httpOpts...), pipelineOpts...)
	client := github.NewClient(pipeline, github.WithBaseURL(cfg.Client.BaseURL))

	var result any
	if o.users {
		result, err = client.ListUsers(ctx)
	} else {
		result, err = client.SearchRepos(ctx, o.query, github.PageModel{Page: o.page, PerPage: o.perPage})
	}
	if err != nil {
		return err
	}

	if err := printJSON(stdout, result); err != nil {
		return err
	}

	if store != nil && o.history > 0 {
		records, err := store.ListExchanges(ctx, storage.ListOptions{Limit: o.history})
		if err != nil {
			return fmt.Errorf("failed to list exchanges: %w", err)
		}
		return printJSON(stdout, records)
	}
	return nil
}

func newStore(cfg config.RecorderConfig) (storage.ExchangeStore, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		store, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open exchange store: %w", err)
		}
		return store, nil
	}
	return nil, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
