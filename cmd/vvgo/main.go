package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/virtual-vgo/portal/internal/client"
	"github.com/virtual-vgo/portal/internal/config"
	"github.com/virtual-vgo/portal/internal/logger"
	"github.com/virtual-vgo/portal/internal/render"
	"github.com/virtual-vgo/portal/internal/tokenstore"
	"github.com/virtual-vgo/portal/internal/version"

	// use the bundled root certificates when the system has none (e.g. scratch containers)
	_ "golang.org/x/crypto/x509roots/fallback"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := a.rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		a.logger.Debug("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(a.stderr, "Error:", client.UserMessage(err))
		os.Exit(1)
	}
}

// app holds what every command needs. It is populated by setup before a command runs.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      *config.Config
	logger   *slog.Logger
	client   *client.Client
	store    *tokenstore.Store
	renderer *render.Renderer

	flags struct {
		token  string
		target string
		origin string
		output string
		color  string
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.DiscardHandler),
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vvgo",
		Short: "Virtual Video Game Orchestra portal client",
		Long: `vvgo talks to the Virtual Video Game Orchestra portal api.

Configuration is read from the environment (VVGO_API_ORIGIN, VVGO_API_TARGET,
VVGO_TOKEN, VVGO_TOKEN_FILE, VVGO_OUTPUT, LOG_LEVEL ...) and can be overridden with flags.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.Version = version.Get().String()
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.token, "token", "", "session token (default: $VVGO_TOKEN, then the saved login)")
	f.StringVar(&a.flags.target, "target", "", "api root, absolute or relative to --origin (default: $VVGO_API_TARGET)")
	f.StringVar(&a.flags.origin, "origin", "", "portal origin (default: $VVGO_API_ORIGIN)")
	f.StringVarP(&a.flags.output, "output", "o", "", "output format: table or json (default: $VVGO_OUTPUT)")
	f.StringVar(&a.flags.color, "color", "auto", "colourise output: auto, always or never")

	cmd.AddCommand(
		a.projectsCmd(),
		a.partsCmd(),
		a.sessionsCmd(),
		a.whoamiCmd(),
		a.mixtapeCmd(),
		a.guildCmd(),
		a.creditsCmd(),
		a.datasetCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.oauthURLCmd(),
		a.fetchCmd(),
	)

	return cmd
}

// setup loads the configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.APITarget = a.flags.target
	}
	if flags.Changed("origin") {
		cfg.APIOrigin = a.flags.origin
	}
	if flags.Changed("output") {
		cfg.Output = a.flags.output
	}
	if flags.Changed("token") {
		cfg.Token = a.flags.token
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	stdoutColor, stderrColor, err := a.colorSettings()
	if err != nil {
		return err
	}

	a.logger = logger.InitLogger(a.stderr, logger.ParseLogLevel(cfg.LogLevel), cfg.Environment, stderrColor)

	a.renderer, err = render.New(a.stdout, render.Format(cfg.Output), stdoutColor)
	if err != nil {
		return err
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile, err = tokenstore.DefaultPath()
		if err != nil {
			return err
		}
	}
	a.store = tokenstore.New(tokenFile)

	token, err := a.resolveToken()
	if err != nil {
		return err
	}

	opts := []client.Option{
		client.WithOrigin(cfg.APIOrigin),
		client.WithTarget(cfg.APITarget),
		client.WithLogger(a.logger),
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(float64(cfg.RateLimit), cfg.RateBurst))
	}

	a.client, err = client.New(token, opts...)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	a.logger.Debug("client configured",
		slog.String("target", a.client.Target()),
		slog.Bool("authenticated", token != ""),
	)
	return nil
}

// resolveToken picks the token from --token, then VVGO_TOKEN, then the token file.
// No token at all means anonymous requests.
func (a *app) resolveToken() (string, error) {
	if a.cfg.Token != "" {
		return a.cfg.Token, nil
	}

	token, err := a.store.Load()
	if errors.Is(err, tokenstore.ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (a *app) colorSettings() (stdout bool, stderr bool, err error) {
	switch a.flags.color {
	case "always":
		return true, true, nil
	case "never":
		return false, false, nil
	case "auto", "":
		return isColorTerminal(a.stdout), isColorTerminal(a.stderr), nil
	default:
		return false, false, fmt.Errorf("invalid --color value '%s'. Valid values: auto, always, never", a.flags.color)
	}
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && render.ShouldColor(f)
}
