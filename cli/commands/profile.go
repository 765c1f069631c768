package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/robgonnella/portprobe/internal/config"
	"github.com/spf13/cobra"
)

// creates and returns the "profile" command and its sub-commands
func profile(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved scan profiles",
	}

	cmd.AddCommand(profileSave(props))
	cmd.AddCommand(profileList(props))
	cmd.AddCommand(profileDelete(props))

	return cmd
}

func profileSave(props *CommandProps) *cobra.Command {
	flags := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "save NAME [targets...]",
		Short: "Create or replace a scan profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := flags.merge(cmd, props.Core.DefaultJob(), args[1:])

			if err != nil {
				return err
			}

			saved, err := props.Core.SaveProfile(&config.Profile{
				Name:      args[0],
				Targets:   job.Targets,
				StartPort: job.StartPort,
				EndPort:   job.EndPort,
				Timeout:   job.Timeout,
			})

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %s\n", saved.Name)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func profileList(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scan profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := props.Core.GetProfiles()

			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "NAME\tTARGETS\tPORTS\tTIMEOUT")

			for _, p := range profiles {
				fmt.Fprintf(
					w,
					"%s\t%s\t%d-%d\t%s\n",
					p.Name,
					strings.Join(p.Targets, ","),
					p.StartPort,
					p.EndPort,
					p.Timeout,
				)
			}

			return w.Flush()
		},
	}

	return cmd
}

func profileDelete(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved scan profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := props.Core.DeleteProfile(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted profile %s\n", args[0])

			return nil
		},
	}

	return cmd
}
