package commands

import "git.home.luguber.info/inful/kicadexport/internal/config"

// InitCmd implements the 'init' command.
type InitCmd struct {
	Output string `short:"o" name:"output" help:"Where to write the example configuration" default:"${example_file}"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	path := i.Output
	if path == "" {
		path = config.ExampleFileName
	}
	return writeExample(g.Stdout, path)
}
