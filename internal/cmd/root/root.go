package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rob3c/aws-resource-providers/internal/build"
	"github.com/rob3c/aws-resource-providers/internal/cmd"
	"github.com/rob3c/aws-resource-providers/internal/cmd/common"
	"github.com/rob3c/aws-resource-providers/internal/cmd/root/invoke"
	profileCmd "github.com/rob3c/aws-resource-providers/internal/cmd/root/profile"
	"github.com/rob3c/aws-resource-providers/internal/cmd/root/version"
	"github.com/rob3c/aws-resource-providers/internal/config"
	cmderr "github.com/rob3c/aws-resource-providers/internal/err"
	"github.com/rob3c/aws-resource-providers/internal/iostreams"
	"github.com/rob3c/aws-resource-providers/internal/log"
	"github.com/rob3c/aws-resource-providers/internal/meta"
	"github.com/rob3c/aws-resource-providers/internal/profile"
	"github.com/rob3c/aws-resource-providers/internal/util"
	"github.com/rob3c/aws-resource-providers/internal/util/i18n"
	"github.com/rob3c/aws-resource-providers/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  awsrp hosts AWS resource provider handlers and invokes them locally
  against declarative request documents.`))

	rootShort = i18n.T("root.rootShort",
		fmt.Sprintf("%s runs %s handlers", meta.CLIName, meta.ProductName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the configuration file path
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := log.NewLogger(streams.ErrOut, currConfig.GetString(common.LogLevelConfigPath))
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			cmd.SetContext(ctx)
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() {
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(invoke.NewInvokeCmd())
	rootCmd.AddCommand(profileCmd.NewProfileCmd())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	addCommands()

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following its built in priorities. So here we look for a well
	// known profile variable and set our package level variable if it's set
	// before continuing to process the command run. This creates a
	// ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, e := config.GetConfig(configFilePath, currProfile)
	util.CheckError(e)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	f := rootCmd.Flags().Lookup(common.OutputFlagName)
	util.CheckError(cfg.BindFlag(common.OutputConfigPath, f))

	f = rootCmd.Flags().Lookup(common.LogLevelFlagName)
	util.CheckError(cfg.BindFlag(common.LogLevelConfigPath, f))
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *cmderr.ExecutionError
		if errors.As(err, &executionError) {
			printer, _ := cli.Format(outputFormat.String(), s.ErrOut)
			printer.Print(err)
		}
		os.Exit(1)
	}
}
