package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/readmegen/internal/config"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write readmegen.yaml into" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, config.DefaultFile)
	}

	g.Logger.Info("Initializing configuration", logfields.Config(cfgPath), "force", i.Force)
	_, _ = fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", cfgPath)
	if err := config.Init(cfgPath, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, "initialized successfully")
	return nil
}
