package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/vuesweep/vuesweep/pkg/models"
)

// AuditRunner shells out to `npm audit --json` in the project root and
// parses the advisory report. The audit needs npm and a lockfile; when npm
// is not installed the result is marked skipped instead of failing the run.
type AuditRunner struct {
	timeout time.Duration
}

// NewAuditRunner creates an audit runner. A non-positive timeout falls back
// to two minutes.
func NewAuditRunner(timeout time.Duration) *AuditRunner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &AuditRunner{timeout: timeout}
}

// Run executes the audit in root.
func (r *AuditRunner) Run(ctx context.Context, root string) (*models.AuditResult, error) {
	if _, err := exec.LookPath("npm"); err != nil {
		return &models.AuditResult{Skipped: true, Reason: "npm not found in PATH"}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "npm", "audit", "--json")
	cmd.Dir = root
	out, runErr := cmd.Output()

	// npm audit exits non-zero when vulnerabilities are present; the report
	// is still written to stdout, so the exit code alone is not an error.
	if len(out) == 0 {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("npm audit: %w", ctx.Err())
		}
		if runErr != nil {
			return nil, fmt.Errorf("npm audit: %w", runErr)
		}
		return &models.AuditResult{}, nil
	}

	advisories, err := parseAuditReport(out)
	if err != nil {
		return nil, err
	}
	return &models.AuditResult{Advisories: advisories}, nil
}

// parseAuditReport reads both report shapes npm has emitted over the years:
// the legacy top-level advisories map and the vulnerabilities map of npm 7+.
func parseAuditReport(data []byte) ([]models.Advisory, error) {
	var report struct {
		Advisories map[string]struct {
			ModuleName string `json:"module_name"`
			Severity   string `json:"severity"`
			Title      string `json:"title"`
		} `json:"advisories"`
		Vulnerabilities map[string]struct {
			Severity string          `json:"severity"`
			Via      json.RawMessage `json:"via"`
		} `json:"vulnerabilities"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing audit report: %w", err)
	}

	var out []models.Advisory
	for _, adv := range report.Advisories {
		out = append(out, models.Advisory{
			Module:   adv.ModuleName,
			Severity: adv.Severity,
			Title:    adv.Title,
		})
	}
	if len(out) == 0 {
		for name, v := range report.Vulnerabilities {
			out = append(out, models.Advisory{
				Module:   name,
				Severity: v.Severity,
				Title:    firstViaTitle(v.Via),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		wi, wj := models.AdvisoryWeight(out[i].Severity), models.AdvisoryWeight(out[j].Severity)
		if wi != wj {
			return wi > wj
		}
		return out[i].Module < out[j].Module
	})
	return out, nil
}

// firstViaTitle extracts a human-readable title from a vulnerability's via
// chain. Entries are either advisory objects or bare package names.
func firstViaTitle(via json.RawMessage) string {
	var entries []json.RawMessage
	if err := json.Unmarshal(via, &entries); err != nil {
		return ""
	}
	for _, e := range entries {
		var adv struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(e, &adv); err == nil && adv.Title != "" {
			return adv.Title
		}
	}
	return ""
}
