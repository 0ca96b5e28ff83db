package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/workflows"
)

// jobReport is the document written by --report.
type jobReport struct {
	JobID          string          `yaml:"job_id"`
	FinishedAt     string          `yaml:"finished_at"`
	Environment    string          `yaml:"environment"`
	Input          string          `yaml:"input,omitempty"`
	State          string          `yaml:"state"`
	FailedIn       string          `yaml:"failed_in,omitempty"`
	States         []string        `yaml:"states"`
	Artifact       *reportArtifact `yaml:"artifact,omitempty"`
	Destination    string          `yaml:"destination,omitempty"`
	SourceDeleted  bool            `yaml:"source_deleted"`
	Error          string          `yaml:"error,omitempty"`
	TeardownErrors []string        `yaml:"teardown_errors,omitempty"`
}

type reportArtifact struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Digest string `yaml:"blake2b_256,omitempty"`
}

func newJobReport(cfg configs.Config, result *workflows.DispatchResult, states []workflows.State, err error) jobReport {
	r := jobReport{
		JobID:         result.JobID,
		FinishedAt:    time.Now().UTC().Format(time.RFC3339),
		Environment:   cfg.EnvironmentID,
		Input:         result.InputPath,
		State:         string(result.State),
		Destination:   result.DestinationPath,
		SourceDeleted: result.SourceDeleted,
	}
	for _, s := range states {
		r.States = append(r.States, string(s))
	}
	if result.Artifact.Name != "" {
		r.Artifact = &reportArtifact{
			Name:   result.Artifact.Name,
			Kind:   result.Artifact.Kind.String(),
			Digest: result.Digest,
		}
	}
	if err != nil {
		r.FailedIn = string(result.FailedIn)
		r.Error = err.Error()
	}
	for _, te := range result.TeardownErrors {
		r.TeardownErrors = append(r.TeardownErrors, te.Error())
	}
	return r
}

func writeReport(path string, r jobReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
