package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/server"
)

var serveFlags struct {
	configPath   string
	host         string
	port         string
	grpc         bool
	grpcPort     string
	dev          bool
	atomicWrites bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge",
	Long: `Run the bridge until SIGINT or SIGTERM.

Configuration is read from defaults, then the --config file (.yaml, .yml or
.toml), then a .env file in the working directory, then FSBRIDGE_*
environment variables. Flags given on the command line win over all of them.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlags.configPath, "config", "c", "", "Path to a YAML or TOML config file")
	f.StringVar(&serveFlags.host, "host", "", "HTTP listen host")
	f.StringVarP(&serveFlags.port, "port", "p", "", "HTTP listen port")
	f.BoolVar(&serveFlags.grpc, "grpc", false, "Enable the gRPC listener")
	f.StringVar(&serveFlags.grpcPort, "grpc-port", "", "gRPC listen port")
	f.BoolVar(&serveFlags.dev, "dev", false, "Development logging")
	f.BoolVar(&serveFlags.atomicWrites, "atomic-writes", false, "Write files through a temporary file and rename")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveFlags.configPath)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	srv, err := server.New(cfg, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// applyServeFlags copies explicitly set flags over cfg and revalidates it
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = serveFlags.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	if flags.Changed("grpc") {
		cfg.GRPC.Enabled = serveFlags.grpc
	}
	if flags.Changed("grpc-port") {
		cfg.GRPC.Port = serveFlags.grpcPort
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = serveFlags.dev
		if serveFlags.dev {
			cfg.Logging.Level = "debug"
		}
	}
	if flags.Changed("atomic-writes") {
		cfg.Filesystem.AtomicWrites = serveFlags.atomicWrites
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
