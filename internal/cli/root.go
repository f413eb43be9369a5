package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mmpm/internal/adapters"
	"mmpm/internal/app"
	"mmpm/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "MMPM"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Root       string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(errorMessage(err)))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "mmpm",
		Short:         "Package manager for MagicMirror dashboard modules",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.Root, "root", "", "MagicMirror installation directory")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("magicmirror_root", cmd.PersistentFlags().Lookup("root"))

	cmd.AddCommand(newDatabaseCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newSearchCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newRemoveCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newUpgradeCommand())
	cmd.AddCommand(newExternalCommand())
	cmd.AddCommand(newDashboardCommand())
	cmd.AddCommand(newModulesCommand())
	cmd.AddCommand(newMigrateCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("magicmirror_root", filepath.Join(os.Getenv("HOME"), "MagicMirror"))
	viper.SetDefault("magicmirror_uri", "ws://localhost:8080/mmpm")
	viper.SetDefault("pm2_process_name", "")
	viper.SetDefault("docker_compose_file", "")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("mmpm")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/mmpm")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService builds the service from the effective configuration. The
// dashboard root honors an explicitly set --root flag over the environment
// and config file.
func newAppService(cmd *cobra.Command) (app.Service, error) {
	root := ""
	if cmd != nil {
		root, _ = cmd.Flags().GetString("root")
	}
	env, err := types.NewEnv(
		resolveString(cmd, root, "magicmirror_root", "root"),
		viper.GetString("magicmirror_uri"),
		viper.GetString("pm2_process_name"),
		viper.GetString("docker_compose_file"),
	)
	if err != nil {
		return app.Service{}, err
	}
	return app.NewService(env, adapters.DefaultCatalogURL, version), nil
}

func exitCodeForError(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition, errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
