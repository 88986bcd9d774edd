package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStickyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sticky",
		Short: "Maintain the sticky places list",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the pinned place ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withSticky(cmd, func(s StickyList) error {
					ids, err := s.IDs(cmd.Context())
					if err != nil {
						return err
					}
					for _, id := range ids {
						printf(cmd.OutOrStdout(), "%d\n", id)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <id>...",
			Short: "Pin places",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return a.withSticky(cmd, func(s StickyList) error {
					if err := s.Add(cmd.Context(), ids...); err != nil {
						return err
					}
					a.logger.Info("places pinned", zap.Int64s("ids", ids))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>...",
			Short: "Unpin places",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return a.withSticky(cmd, func(s StickyList) error {
					if err := s.Remove(cmd.Context(), ids...); err != nil {
						return err
					}
					a.logger.Info("places unpinned", zap.Int64s("ids", ids))
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) withSticky(cmd *cobra.Command, fn func(s StickyList) error) error {
	s, closeFn, err := a.deps.OpenSticky(cmd.Context(), a.cfg)
	if err != nil {
		return fmt.Errorf("open sticky list: %w", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(s)
}

// parseIDs converts positive integer arguments to place ids.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid place id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
