package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsoncmp/internal/config"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/logging"
	"github.com/mcncl/jsoncmp/internal/transfer"
	"go.uber.org/zap"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to config file. Defaults to .jsoncmp.yml in the current or a parent directory." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	NoColor bool             `help:"Disable colored output." name:"no-color"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Compare CompareCmd `cmd:"" help:"Compare two JSON documents and show a structural diff." default:"withargs"`
	Missing MissingCmd `cmd:"" help:"List keys present in only one of two documents."`
	Copy    CopyCmd    `cmd:"" help:"Copy one missing key as a JSON fragment."`
	CopyAll CopyAllCmd `cmd:"" name:"copy-all" help:"Copy every key of a missing-key list as one JSON object."`
	Format  FormatCmd  `cmd:"" help:"Pretty print or compact a JSON document."`
	Lines   LinesCmd   `cmd:"" help:"Show a line diff of both pretty printed documents."`
	Patch   PatchCmd   `cmd:"" help:"Print the RFC 6902 JSON Patch that turns the left document into the right one."`
	Apply   ApplyCmd   `cmd:"" help:"Apply an RFC 6902 JSON Patch to a document."`
	Watch   WatchCmd   `cmd:"" help:"Compare two files again whenever either one changes."`
}

// Context holds the runtime context passed to every command
type Context struct {
	Debug     bool
	Config    *config.Config
	Logger    *zap.Logger
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Clipboard transfer.Clipboard
}

// Version information
const (
	Version = "0.1.0"
)

// errDifferences ends the process with exit code 1 without an error message
var errDifferences = stderrors.New("documents differ")

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsoncmp"),
		kong.Description("A tool to compare JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsoncmp version %s", Version)},
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		parser.FatalIfErrorf(err)
	}

	ctx, err := newContext()
	if err != nil {
		fail(err)
	}
	defer func() { _ = ctx.Logger.Sync() }()

	ctx.Logger.Debug("running command", zap.String("command", kctx.Command()))

	if err := kctx.Run(ctx); err != nil {
		if stderrors.Is(err, errDifferences) {
			os.Exit(1)
		}
		fail(err)
	}
}

func fail(err error) {
	// Use our custom error handling to provide user-friendly error messages
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

	// Show help on error
	fmt.Fprintf(os.Stderr, "\nFor help, run: jsoncmp --help\n")

	os.Exit(1)
}

// newContext loads configuration and builds the logger for a run
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger, err := logging.New(cfg.Dev.Debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to set up logging", err)
	}
	if configPath != "" {
		logger.Debug("loaded config file", zap.String("path", configPath))
	}

	return &Context{
		Debug:     cfg.Dev.Debug,
		Config:    cfg,
		Logger:    logger,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: transfer.SystemClipboard(),
	}, nil
}

// overrides collects flags that take precedence over the config file. Only
// the selected command's flags can be set, so they are merged freely.
func overrides() config.Overrides {
	return config.Overrides{
		Debounce:   CLI.Watch.Debounce,
		NoColor:    CLI.NoColor,
		ShowIDs:    CLI.Compare.ShowIDs || CLI.Watch.ShowIDs,
		Indent:     CLI.Format.Indent,
		SortKeys:   CLI.Format.SortKeys || CLI.Lines.SortKeys,
		Clipboard:  CLI.Compare.Clipboard || CLI.Copy.Clipboard || CLI.CopyAll.Clipboard,
		Invertible: CLI.Patch.Invertible,
		Debug:      CLI.Debug,
	}
}
