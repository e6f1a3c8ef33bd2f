package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rob3c/aws-resource-providers/internal/build"
	"github.com/rob3c/aws-resource-providers/internal/cmd/common"
	"github.com/rob3c/aws-resource-providers/internal/config"
	cmderr "github.com/rob3c/aws-resource-providers/internal/err"
	"github.com/rob3c/aws-resource-providers/internal/iostreams"
	"github.com/rob3c/aws-resource-providers/internal/log"
	"github.com/spf13/cobra"
)

// Helper provides commands access to the runtime values wired into the
// command context by the root command (config, streams, logger, build info).
type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	GetLogger() (*slog.Logger, error)
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
}

type CommandHelper struct {
	// Cmd is a pointer to the command that is being executed
	Cmd *cobra.Command
	// Args are the arguments (not flags) passed to the command
	Args []string
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

func (r *CommandHelper) GetContext() context.Context {
	return r.Cmd.Context()
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	return r.Cmd.Context().Value(iostreams.StreamsKey).(*iostreams.IOStreams)
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	cfgVal := r.Cmd.Context().Value(config.ConfigKey)
	if cfgVal == nil {
		return nil, &cmderr.ConfigurationError{
			Err: fmt.Errorf("no config found in context"),
		}
	}
	return cfgVal.(config.Hook), nil
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	s := c.GetString(common.OutputConfigPath)
	rv, e := common.OutputFormatStringToIota(s)
	if e != nil {
		return common.TEXT, e
	}
	return rv, nil
}

func (r *CommandHelper) GetLogger() (*slog.Logger, error) {
	val := r.Cmd.Context().Value(log.LoggerKey)
	if val == nil {
		return nil, &cmderr.ConfigurationError{
			Err: fmt.Errorf("no logger configured"),
		}
	}
	return val.(*slog.Logger), nil
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	val := r.Cmd.Context().Value(build.InfoKey)
	if val == nil {
		return nil, &cmderr.ConfigurationError{
			Err: fmt.Errorf("no build info configured"),
		}
	}

	info, ok := val.(*build.Info)
	if !ok || info == nil {
		return nil, &cmderr.ConfigurationError{
			Err: fmt.Errorf("invalid build info configured"),
		}
	}

	return info, nil
}

// PrepareExecutionError normalizes an error into an ExecutionError that the
// root command renders on exit.
func PrepareExecutionError(msg string, e error, cmd *cobra.Command, attrs ...any) *cmderr.ExecutionError {
	attrs = append(attrs, "command", cmd.Name())
	return &cmderr.ExecutionError{
		Msg:   msg,
		Err:   e,
		Attrs: attrs,
	}
}
