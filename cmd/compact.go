package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"media-catalog/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compactChild string
	compactOwner string
	yesConfirm   bool
)

// compactCmd renumbers one position group of an association kind.
var compactCmd = &cobra.Command{
	Use:   "compact <kind>",
	Short: "Compact one position group of an association kind",
	Long: `Renumbers one group to a dense 0-based sequence, keeping relative order.

Examples:
  # Compact the reference orders of one product
  compact release_to_products --child 5f0c...

  # Compact the orders of one track (composite owner key)
  compact release_track_artists --owner 9a1e...:1:3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().StringVar(&compactChild, "child", "", "Child ID whose reference orders are compacted")
	compactCmd.Flags().StringVar(&compactOwner, "owner", "", "Owner key whose orders are compacted (components joined by ':')")
	compactCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	compactCmd.MarkFlagsMutuallyExclusive("child", "owner")
	compactCmd.MarkFlagsOneRequired("child", "owner")

	RootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	l := a.logger

	kind, err := a.catalog.Registry().Get(args[0])
	if err != nil {
		return err
	}

	scope, group, err := compactTarget(kind, compactChild, compactOwner)
	if err != nil {
		return err
	}

	l.Info("Compacting group",
		zap.String("kind", kind.Name),
		zap.String("scope", scope.String()),
		zap.String("group", group.String()),
	)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	moved, err := a.catalog.Engine().Compact(cmd.Context(), a.db, kind, scope, group)
	if err != nil {
		return fmt.Errorf("compaction failed: %w", err)
	}
	fmt.Printf("Rows moved: %d\n", moved)
	return nil
}

// compactTarget resolves the flags into a compaction scope and group.
func compactTarget(kind *reconcile.Kind, child, owner string) (reconcile.Scope, reconcile.Key, error) {
	switch {
	case child != "" && owner != "":
		return 0, nil, errors.New("--child and --owner are mutually exclusive")
	case child != "":
		if !kind.CrossReferencing {
			return 0, nil, fmt.Errorf("%w: %s", reconcile.ErrNotCrossReferencing, kind.Name)
		}
		return reconcile.ScopeChild, reconcile.Key{child}, nil
	case owner != "":
		key, err := reconcile.ParseKey(kind, owner)
		if err != nil {
			return 0, nil, err
		}
		return reconcile.ScopeOwner, key, nil
	default:
		return 0, nil, errors.New("one of --child or --owner is required")
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
