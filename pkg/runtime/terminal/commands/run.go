package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	fileexport "github.com/sparrow-vision/access-atlas/pkg/export"
	"github.com/sparrow-vision/access-atlas/pkg/models/domain"
	"github.com/sparrow-vision/access-atlas/pkg/runtime/terminal/export"
	"github.com/sparrow-vision/access-atlas/pkg/services/provider"
	reportsvc "github.com/sparrow-vision/access-atlas/pkg/services/report"
	reportstore "github.com/sparrow-vision/access-atlas/pkg/store/report"
)

type RunCmd struct {
	definitionPath string
	usersFile      string
	auditFile      string
	violationsFile string
	format         string
	output         string
	reporter       *export.Reporter
}

func NewRunCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RunCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a report definition against record snapshots",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.definitionPath, "definition", "", "Path to a report definition JSON file")
	cmd.Flags().StringVar(&rc.usersFile, "users", "", "Path to a user access snapshot (JSON array of records)")
	cmd.Flags().StringVar(&rc.auditFile, "audit", "", "Path to an audit event snapshot")
	cmd.Flags().StringVar(&rc.violationsFile, "violations", "", "Path to a policy violation snapshot")
	cmd.Flags().StringVar(&rc.format, "format", "", "Export format (csv, json, excel); omit for a text table")
	cmd.Flags().StringVar(&rc.output, "output", "", "Output file; omit for stdout")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	def, err := rc.loadDefinition()
	if err != nil {
		return err
	}

	registry := provider.NewRegistry()
	snapshots := []struct {
		kind provider.Kind
		path string
	}{
		{provider.KindUserAccess, rc.usersFile},
		{provider.KindAudit, rc.auditFile},
		{provider.KindPolicyViolation, rc.violationsFile},
	}
	registered := 0
	for _, snapshot := range snapshots {
		if snapshot.path == "" {
			continue
		}
		if err := registry.Register(&provider.FileSource{SourceKind: snapshot.kind, Path: snapshot.path}); err != nil {
			return err
		}
		registered++
	}
	if registered == 0 {
		return fmt.Errorf("at least one snapshot flag is required (--users, --audit or --violations)")
	}

	generator := reportsvc.NewGenerator(reportstore.NewMemoryStore(), registry)
	result, err := generator.Run(ctx, def)
	if err != nil {
		return err
	}

	if rc.format == "" {
		return rc.reporter.Handle(result, def.Columns)
	}

	format, err := fileexport.ParseFormat(rc.format)
	if err != nil {
		return err
	}
	encoded, err := fileexport.Encode(result, def.Columns, format)
	if err != nil {
		return err
	}

	if rc.output == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(rc.output, encoded, 0o644)
}

func (rc *RunCmd) loadDefinition() (*domain.ReportDefinition, error) {
	data, err := os.ReadFile(rc.definitionPath)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	var def domain.ReportDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if def.Status == "" {
		def.Status = domain.ReportActive
	}
	return &def, nil
}
