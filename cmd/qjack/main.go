package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/qjack/cmd/qjack/shared"
	"github.com/lox/qjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `help:"Path to the HCL config file; a missing file uses defaults" default:"${config_file}" type:"path"`
	Debug    bool   `help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" help:"Emit structured JSON logs"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Train   TrainCmd         `cmd:"" help:"Train the Q-table until interrupted or --max-batches is reached"`
	Eval    EvalCmd          `cmd:"" help:"Compare the trained policy against a random baseline"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("qjack"),
		kong.Description("Tabular Q-learning for a simplified blackjack"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) logger() zerolog.Logger {
	return shared.SetupLogger(g.Debug, g.JSONLogs)
}

func (g *Globals) loadConfig(logger zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", g.Config, err)
	}
	logger.Debug().Str("config", g.Config).Str("table_path", cfg.TablePath).Msg("configuration loaded")
	return cfg, nil
}
