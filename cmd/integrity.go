package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"media-catalog/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	uploadFlag bool
	jsonFlag   bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the ordered association tables",
	Long: `Checks every association table for schema drift and for owner or child
position groups that are not dense.

Examples:
  # Report only
  integrity

  # Compact every group with gaps (with interactive confirmation)
  integrity --fix

  # Save the report locally and upload it to the reports bucket
  integrity --json --upload`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Compact every group with gaps")
	integrityCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Upload the report to object storage")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the report as a local JSON file")
	integrityCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	l := a.logger

	svc := integrity.NewService(a.db, a.catalog.Engine(), a.catalog.Registry(), a.store, a.cfg.Storage.Bucket, 0, l)

	l.Info("Checking association tables...")
	report, err := svc.Check(ctx)
	if err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}

	gaps := report.Gaps()
	missing := 0
	for _, tbl := range report.Schema.Tables {
		if tbl.Status != "ok" {
			missing++
		}
	}

	fmt.Println("\n=== Association Integrity ===")
	fmt.Printf("Kinds: %d\n", len(a.catalog.Registry().All()))
	fmt.Printf("Tables With Schema Issues: %d\n", missing)
	fmt.Printf("Groups With Gaps: %d\n", len(gaps))
	fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

	for i, g := range gaps {
		if i == 5 {
			l.Info("Additional gaps not shown", zap.Int("count", len(gaps)-i))
			break
		}
		l.Info("Gap",
			zap.String("kind", g.Kind),
			zap.String("scope", g.Scope),
			zap.String("group", g.Group.String()),
			zap.Int("count", g.Count),
			zap.Int("min", g.Min),
			zap.Int("max", g.Max),
		)
	}

	if jsonFlag {
		filename := fmt.Sprintf("integrity_orders_%d.json", report.GeneratedAt.Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		l.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	if uploadFlag {
		name, err := svc.Upload(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		fmt.Printf("Uploaded report: %s/%s\n", a.cfg.Storage.Bucket, name)
	}

	if !fixFlag {
		if len(gaps) > 0 {
			l.Info("Use --fix to compact the groups with gaps.")
		}
		return nil
	}
	if len(gaps) == 0 {
		l.Info("No repairs required.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	result, err := svc.Repair(ctx, report)
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	fmt.Printf("Compacted Groups: %d (rows moved: %d, failures: %d)\n", result.Groups, result.Moved, len(result.Errors))
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d groups could not be compacted", len(result.Errors))
	}
	return nil
}
