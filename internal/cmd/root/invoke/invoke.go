package invoke

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rob3c/aws-resource-providers/internal/cmd"
	"github.com/rob3c/aws-resource-providers/internal/cmd/common"
	cmderr "github.com/rob3c/aws-resource-providers/internal/err"
	"github.com/rob3c/aws-resource-providers/internal/meta"
	"github.com/rob3c/aws-resource-providers/internal/organizations/helpers"
	"github.com/rob3c/aws-resource-providers/internal/provider"
	"github.com/rob3c/aws-resource-providers/internal/provider/organizationalunit"
	"github.com/rob3c/aws-resource-providers/internal/util"
	"github.com/rob3c/aws-resource-providers/internal/util/i18n"
	"github.com/rob3c/aws-resource-providers/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const (
	TypeFlagName   = "type"
	TypeConfigPath = "invoke." + TypeFlagName

	FileFlagName   = "file"
	FileFlagShort  = "f"
	FileConfigPath = "invoke." + FileFlagName
)

var (
	invokeUse = "invoke <action>"

	invokeShort = i18n.T("root.invoke.invokeShort", "Invoke a resource provider handler")

	invokeLong = normalizers.LongDesc(i18n.T("root.invoke.invokeLong",
		`Invoke dispatches one lifecycle action (CREATE, READ, UPDATE, DELETE, LIST)
to a registered resource provider handler using a request document holding the
desired and, where applicable, previous resource state. The resulting progress
event is printed in the configured output format and a failed event sets a
non-zero exit code.`))

	invokeExamples = normalizers.Examples(i18n.T("root.invoke.invokeExamples",
		fmt.Sprintf(`
		# Create an organizational unit from a request document
		%[1]s invoke CREATE -f request.yaml
		# Delete, reading the request document from stdin
		cat request.yaml | %[1]s invoke DELETE
		# Target an explicit resource type
		%[1]s invoke UPDATE --type AWS::Organizations::OrganizationalUnit -f request.yaml
		`, meta.CLIName)))
)

// NewInvokeCmd builds a new instance of the invoke command
func NewInvokeCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     invokeUse,
		Short:   invokeShort,
		Long:    invokeLong,
		Example: invokeExamples,
		Args:    cobra.ExactArgs(1),
		PreRun: func(c *cobra.Command, args []string) {
			bindFlags(c, args)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmd.BuildHelper(c, args))
		},
	}

	rv.Flags().String(TypeFlagName, organizationalunit.TypeName,
		i18n.T(fmt.Sprintf("root.%s", TypeConfigPath),
			fmt.Sprintf("Resource type to invoke.\n (config path = '%s')", TypeConfigPath)))

	rv.Flags().StringP(FileFlagName, FileFlagShort, "",
		i18n.T(fmt.Sprintf("root.%s", FileConfigPath),
			fmt.Sprintf("Request document to load; reads stdin when omitted.\n (config path = '%s')", FileConfigPath)))

	return rv
}

func bindFlags(c *cobra.Command, args []string) {
	helper := cmd.BuildHelper(c, args)
	cfg, e := helper.GetConfig()
	util.CheckError(e)
	util.CheckError(cfg.BindFlag(TypeConfigPath, c.Flags().Lookup(TypeFlagName)))
	util.CheckError(cfg.BindFlag(FileConfigPath, c.Flags().Lookup(FileFlagName)))
}

func run(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	streams := helper.GetStreams()
	ctx := helper.GetContext()

	action, err := provider.ParseAction(strings.ToUpper(helper.GetArgs()[0]))
	if err != nil {
		return &cmderr.ConfigurationError{Err: err}
	}

	typeName := cfg.GetString(TypeConfigPath)
	factory, ok := provider.Lookup(typeName)
	if !ok {
		return &cmderr.ConfigurationError{
			Err: fmt.Errorf("unknown resource type %q, registered types: %v",
				typeName, provider.TypeNames()),
		}
	}

	data, err := readRequestData(cfg.GetString(FileConfigPath), streams.In)
	if err != nil {
		return cmd.PrepareExecutionError("Failed to read request document", err, helper.GetCmd())
	}

	req, err := parseRequestDocument(data, action)
	if err != nil {
		return &cmderr.ConfigurationError{Err: err}
	}

	awsCfg, err := helpers.NewAWSConfig(ctx, cfg)
	if err != nil {
		return cmd.PrepareExecutionError("Failed to resolve AWS configuration", err, helper.GetCmd())
	}

	handler, err := factory(provider.Dependencies{AWSConfig: awsCfg, Logger: logger})
	if err != nil {
		return cmd.PrepareExecutionError("Failed to construct handler", err, helper.GetCmd())
	}

	event := provider.Dispatch(ctx, handler, req, logger)

	if err := printEvent(helper, event); err != nil {
		return err
	}

	if event.Failed() {
		failure := fmt.Errorf("%s: %s", event.ErrorCode, event.Message)
		attrs := cmderr.TryConvertErrorToAttrs(failure)
		return cmd.PrepareExecutionError("Handler reported failure", failure, helper.GetCmd(), attrs...)
	}
	return nil
}

func readRequestData(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func printEvent(helper cmd.Helper, event provider.ProgressEvent) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	out := helper.GetStreams().Out

	if outType == common.TEXT {
		fmt.Fprintf(out, "Status: %s\n", event.OperationStatus)
		if event.Failed() {
			fmt.Fprintf(out, "Error : %s\n", event.ErrorCode)
			fmt.Fprintf(out, "Reason: %s\n", event.Message)
			return nil
		}
		models := event.ResourceModels
		if event.ResourceModel != nil {
			models = []any{event.ResourceModel}
		}
		for _, model := range models {
			b, err := json.Marshal(model)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Model : %s\n", b)
		}
		return nil
	}

	printer, err := cli.Format(outType.String(), out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(event)
	return nil
}
