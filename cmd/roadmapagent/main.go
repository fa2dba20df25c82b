package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/adk"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/generator"
	"github.com/tbxark/roadmapagent/provider"
	"github.com/tbxark/roadmapagent/server"
	"github.com/tbxark/roadmapagent/types"
)

var (
	configPath string
	verbose    bool
	config     *Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styled(os.Stderr, errorStyle, "Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roadmapagent",
		Short: "Generate personalized career roadmaps",
		Long: `roadmapagent turns a career field, an experience level and a set of goals
into a phased learning roadmap using a generative model. When the model fails
a fixed roadmap is served instead, and the demo works without any API key.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level, _ := conf.logLevel()
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetLogLoggerLevel(level)
			config = conf
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file (json or yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newInteractiveCmd(),
		newDemoCmd(),
		newSchemaCmd(),
	)
	return rootCmd
}

type sweeper interface {
	Sweep() int
}

// newFlow returns the flow and the in-memory stores backing it so callers can sweep idle sessions.
func newFlow(conf *Config) (*agent.RoadmapFlow, []sweeper, error) {
	factory, err := provider.NewFactory(conf.providerConfig())
	if err != nil {
		return nil, nil, err
	}
	timeout, _ := conf.timeout()
	ttl, _ := conf.sessionTTL()
	adapters := agent.NewMemoryCache[*roadmapagent.Adapter](agent.WithIdleTTL(ttl))
	states := agent.NewMemoryStateReadWriter(agent.WithIdleTTL(ttl))
	flow := agent.NewRoadmapFlow(
		agent.ProviderAdapterFactory(
			factory,
			roadmapagent.WithMode(generator.Mode(conf.Mode)),
			roadmapagent.WithTimeout(timeout),
		),
		agent.WithAdapterCache(adapters),
		agent.WithStateReadWriter(states),
	)
	return flow, []sweeper{adapters, states}, nil
}

func sweepSessions(ctx context.Context, every time.Duration, stores ...sweeper) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, store := range stores {
				removed += store.Sweep()
			}
			if removed > 0 {
				slog.Debug("Expired idle sessions", "entries", removed)
			}
		}
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				config.Addr = addr
			}
			flow, stores, err := newFlow(config)
			if err != nil {
				return err
			}
			srv, err := server.New(flow, server.Config{
				Addr:           config.Addr,
				SessionSecret:  config.SessionSecret,
				SecureCookie:   config.SecureCookie,
				AllowedOrigins: config.AllowedOrigins,
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if ttl, _ := config.sessionTTL(); ttl > 0 {
				go sweepSessions(ctx, ttl/4, stores...)
			}
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config file")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		req    types.Request
		format string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one roadmap and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if missing := (agent.RoadmapFormSpec{}).MissingFacts(&req); len(missing) > 0 {
				return &agent.ValidationError{Fields: missing}
			}
			flow, _, err := newFlow(config)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
			apiKey, err := secretReader(cmd.InOrStdin())()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read api key: %w", err)
			}
			if err := flow.Configure(ctx, apiKey); err != nil {
				return err
			}
			state, err := runAgent(ctx, flow, &req)
			if err != nil {
				return err
			}
			if state.Source == roadmapagent.SourceFallback {
				slog.Warn("The model reply could not be used, showing the fallback roadmap")
			}
			return renderRoadmap(cmd.OutOrStdout(), state.Roadmap, format)
		},
	}
	cmd.Flags().StringVar(&req.Career, "career", "", "desired career field")
	cmd.Flags().StringVar(&req.ExperienceLevel, "experience", "", "current experience level")
	cmd.Flags().StringVar(&req.Goals, "goals", "", "career goals and interests")
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown or json")
	return cmd
}

// runAgent submits one request through an adk runner and decodes the final state.
func runAgent(ctx context.Context, flow *agent.RoadmapFlow, req *types.Request) (*agent.State, error) {
	msg, err := agent.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: agent.NewAgent("RoadmapGenerator", "Generates a phased career roadmap from a submitted form", flow),
	})
	iter := runner.Run(ctx, []adk.Message{msg})
	var state *agent.State
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			return nil, event.Err
		}
		if event.Output == nil || event.Output.MessageOutput == nil {
			continue
		}
		out, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			return nil, err
		}
		state, err = agent.DecodeState(out.Content)
		if err != nil {
			return nil, err
		}
	}
	if state == nil || state.Roadmap == nil {
		return nil, errors.New("agent returned no roadmap")
	}
	return state, nil
}

func newInteractiveCmd() *cobra.Command {
	var showAll bool
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"chat"},
		Short:   "Fill in the form and generate roadmaps in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, _, err := newFlow(config)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			in := cmd.InOrStdin()
			var readSecret func() (string, error)
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				readSecret = secretReader(in)
			}
			session := newInteractiveSession(flow, in, cmd.OutOrStdout(), readSecret, showAll)
			fmt.Fprintln(cmd.OutOrStdout(), styled(cmd.OutOrStdout(), promptStyle, "Career Roadmap Generator"))
			fmt.Fprintln(cmd.OutOrStdout(), styled(cmd.OutOrStdout(), hintStyle, "Type '/help' for commands."))
			err = session.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&showAll, "show-all", false, "list every remaining field in each prompt")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		career string
		format string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the demo roadmap, no API key needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderRoadmap(cmd.OutOrStdout(), generator.DemoRoadmap(career), format)
		},
	}
	cmd.Flags().StringVar(&career, "career", "", "career field shown in the demo")
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown or json")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var request bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the roadmap or of the request form",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw string
				err error
			)
			if request {
				raw, err = agent.RoadmapFormSpec{}.JsonSchema()
			} else {
				raw, err = types.RoadmapJSONSchema()
			}
			if err != nil {
				return err
			}
			var v any
			if err := sonic.UnmarshalString(raw, &v); err != nil {
				return err
			}
			data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&request, "request", false, "print the request form schema instead")
	return cmd
}

// secretReader hides typed input when in is a terminal and reads one line otherwise.
func secretReader(in io.Reader) func() (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return func() (string, error) {
			b, err := term.ReadPassword(int(f.Fd()))
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
	}
	reader := bufio.NewReader(in)
	return func() (string, error) {
		return readLine(reader)
	}
}
