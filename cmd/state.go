package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pringinacio/ivxv/internal/config"
	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
)

func NewStateCommand(cfg *config.Configuration) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect the collector management database",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, func(s *store.Store) error {
				value, err := s.Values().GetValue(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <prefix>",
		Short: "Print every value below a key prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, func(s *store.Store) error {
				values, err := s.Values().GetAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(values))
				for key := range values {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, values[key])
				}
				return nil
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, func(s *store.Store) error {
				return s.Values().SetValue(cmd.Context(), args[0], args[1])
			})
		},
	}

	servicesCmd := &cobra.Command{
		Use:   "services [type...]",
		Short: "List non-removed services",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := make([]models.ServiceType, 0, len(args))
			for _, arg := range args {
				t, err := models.ParseServiceType(arg)
				if err != nil {
					return err
				}
				types = append(types, t)
			}
			return withStore(cmd, cfg, func(s *store.Store) error {
				status := services.NewStatusService(services.NewSelector(s.Values()))
				list, err := status.ListServices(cmd.Context(), types...)
				if err != nil {
					return err
				}
				for _, svc := range list {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-14s %-11s %s\n", svc.ID, svc.Type, svc.State, svc.Address)
				}
				return nil
			})
		},
	}

	for _, c := range []*cobra.Command{getCmd, listCmd, setCmd, servicesCmd} {
		registerStoreFlags(c.Flags(), cfg)
		stateCmd.AddCommand(c)
	}
	return stateCmd
}

func withStore(cmd *cobra.Command, cfg *config.Configuration, fn func(*store.Store) error) error {
	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(s)
}
