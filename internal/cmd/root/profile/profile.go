package profile

import (
	"fmt"
	"slices"

	"github.com/rob3c/aws-resource-providers/internal/cmd"
	cmderr "github.com/rob3c/aws-resource-providers/internal/err"
	"github.com/rob3c/aws-resource-providers/internal/profile"
	"github.com/rob3c/aws-resource-providers/internal/util/i18n"
	"github.com/rob3c/aws-resource-providers/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	profileUse   = "profile"
	profileShort = i18n.T("root.profile.profileShort", "Manage CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profile command lists, shows, and creates the named profiles stored
at the top level of the configuration file.`))
)

// NewProfileCmd builds a new instance of the profile command
func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profiles"},
	}

	rv.AddCommand(newListCmd())
	rv.AddCommand(newShowCmd())
	rv.AddCommand(newCreateCmd())

	return rv
}

func managerFromContext(c *cobra.Command) profile.Manager {
	return c.Context().Value(profile.ProfileManagerKey).(profile.Manager)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: i18n.T("root.profile.listShort", "List the configured profiles"),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runList(cmd.BuildHelper(c, args), managerFromContext(c))
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: i18n.T("root.profile.showShort", "Show the values of a profile"),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runShow(cmd.BuildHelper(c, args), managerFromContext(c))
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: i18n.T("root.profile.createShort", "Create a new empty profile"),
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCreate(cmd.BuildHelper(c, args), managerFromContext(c))
		},
	}
}

func runList(helper cmd.Helper, mgr profile.Manager) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	p.Print(mgr.GetProfiles())
	return nil
}

func runShow(helper cmd.Helper, mgr profile.Manager) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	name := cfg.GetProfile()
	if args := helper.GetArgs(); len(args) == 1 {
		name = args[0]
	}
	if !slices.Contains(mgr.GetProfiles(), name) {
		return &cmderr.ConfigurationError{
			Err: fmt.Errorf("profile %q does not exist", name),
		}
	}

	values, err := mgr.GetProfile(name)
	if err != nil {
		return err
	}

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	p.Print(values)
	return nil
}

func runCreate(helper cmd.Helper, mgr profile.Manager) error {
	name := helper.GetArgs()[0]

	if err := mgr.CreateProfile(name); err != nil {
		return &cmderr.ConfigurationError{
			Err: fmt.Errorf("failed to create profile %q: %w", name, err),
		}
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return cmd.PrepareExecutionError("Failed to save configuration", err, helper.GetCmd())
	}

	fmt.Fprintf(helper.GetStreams().Out, "Profile %q created in %s\n", name, cfg.GetPath())
	return nil
}
