package version

import (
	"fmt"

	"github.com/rob3c/aws-resource-providers/internal/cmd"
	"github.com/rob3c/aws-resource-providers/internal/meta"
	"github.com/rob3c/aws-resource-providers/internal/util"
	"github.com/rob3c/aws-resource-providers/internal/util/i18n"
	"github.com/rob3c/aws-resource-providers/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	ShowCommitFlagName   = "show-commit"
	ShowCommitConfigPath = "version." + ShowCommitFlagName
)

var (
	versionUse   = "version"
	versionShort = i18n.T("root.version.versionShort",
		fmt.Sprintf("Print the %s version", meta.CLIName))
	versionLong = normalizers.LongDesc(i18n.T("root.version.versionLong",
		`The version command prints the version and other optional information`))
	versionExample = normalizers.Examples(i18n.T("root.version.versionExamples",
		fmt.Sprintf(`
		# Print the simple version
		%[1]s version
		# Print the version and the git commit hash
		%[1]s version --show-commit
		`, meta.CLIName)))
)

// NewVersionCmd builds a new instance of the version command
func NewVersionCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     versionUse,
		Short:   versionShort,
		Long:    versionLong,
		Example: versionExample,
		PreRun: func(c *cobra.Command, args []string) {
			bindFlags(c, args)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmd.BuildHelper(c, args))
		},
	}

	rv.Flags().Bool(ShowCommitFlagName, false,
		i18n.T(fmt.Sprintf("root.%s", ShowCommitConfigPath),
			fmt.Sprintf("True to show the git commit hash when built.\n (config path = '%s')", ShowCommitConfigPath)))

	return rv
}

func bindFlags(c *cobra.Command, args []string) {
	helper := cmd.BuildHelper(c, args)
	cfg, e := helper.GetConfig()
	util.CheckError(e)
	f := c.Flags().Lookup(ShowCommitFlagName)
	util.CheckError(cfg.BindFlag(ShowCommitConfigPath, f))
}

func run(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	info, err := helper.GetBuildInfo()
	if err != nil {
		return err
	}

	out := helper.GetStreams().Out
	if cfg.GetBool(ShowCommitConfigPath) {
		fmt.Fprintf(out, "%s (%s)\n", info.Version, info.Commit)
		return nil
	}
	fmt.Fprintln(out, info.Version)
	return nil
}
