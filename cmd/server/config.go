package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	port           int
	allowedOrigins []string
	publicURL      string
	verbose        bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if len(c.allowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BLOCKS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "blocks-server",
		Short:         "Authoritative game server for the Blocks counting party game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BLOCKS_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5000, "port to listen on (env: BLOCKS_PORT)")
	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", []string{"http://localhost:8080"}, "origins allowed to reach the API (env: BLOCKS_ALLOWED_ORIGINS)")
	fs.StringVar(&cfg.publicURL, "public-url", "http://localhost:8080", "public frontend URL, used in invite links (env: BLOCKS_PUBLIC_URL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BLOCKS_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("blocks-server v{{.Version}}\n")

	return cmd
}
