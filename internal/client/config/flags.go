package config

import (
	"flag"
	"os"

	"github.com/avachat/avachat/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the identity provider
//	-d string   path to the database file
//	-x string   app context: live, preview or test
//	-debug      enable debug behavior (tracing, seeding, drift erase)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-x", "-debug"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProviderBaseURL, "a", cfg.ProviderBaseURL, "identity provider base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database file path")
	appContext := fs.String("x", string(cfg.Context), "app context (live|preview|test)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug behavior")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Context = AppContext(*appContext)
}
