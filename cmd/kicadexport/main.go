package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kicadexport/cmd/kicadexport/commands"
	"git.home.luguber.info/inful/kicadexport/internal/config"
	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
	"git.home.luguber.info/inful/kicadexport/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("kicadexport"),
		kong.Description("Export KiCad fabrication, assembly and BOM outputs with kicad-cli."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{
			"version":      version.String(),
			"example_file": config.ExampleFileName,
		},
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ferrors.ExitInternal
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "kicadexport: error: %v\n", err)
		return ferrors.ExitValidation
	}

	g := &commands.Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}
	if err := kctx.Run(g, cli); err != nil {
		code := ferrors.ExitFailure
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).
			WithWriter(stderr).
			WithExit(func(c int) { code = c }).
			HandleError(err)
		return code
	}
	return ferrors.ExitSuccess
}
