package app

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"

	"brandgate/internal/license"
	"brandgate/internal/store"
)

// seedFile is the YAML fixture format the harness accepts via -seed.
type seedFile struct {
	Subscriptions []seedSubscription `yaml:"subscriptions"`
}

type seedSubscription struct {
	TenantID   string    `yaml:"tenant_id"`
	LicenseKey string    `yaml:"license_key"`
	Status     string    `yaml:"status"`
	StartDate  time.Time `yaml:"start_date"`
	EndDate    time.Time `yaml:"end_date"`
	PlanID     string    `yaml:"plan_id"`
	Plan       seedPlan  `yaml:"plan"`
	Branches   int       `yaml:"branches"`
}

type seedPlan struct {
	MaxBranches int             `yaml:"max_branches"`
	Flags       map[string]bool `yaml:"flags"`
}

// LoadSeedFile reads a YAML fixture file and loads it into the memory store.
func LoadSeedFile(path string, st *store.MemoryStore) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i, entry := range seed.Subscriptions {
		status := license.Status(entry.Status)
		switch status {
		case license.StatusActive, license.StatusExpired, license.StatusSuspended, license.StatusCancelled:
		default:
			return fmt.Errorf("seed entry %d: unknown status %q", i, entry.Status)
		}
		if entry.TenantID == "" || entry.LicenseKey == "" {
			return fmt.Errorf("seed entry %d: tenant_id and license_key are required", i)
		}

		planID := entry.PlanID
		if planID == "" {
			planID = "plan-standard"
		}
		sub := &license.Subscription{
			ID:         uuid.New(),
			TenantID:   entry.TenantID,
			LicenseKey: entry.LicenseKey,
			Status:     status,
			StartDate:  entry.StartDate,
			EndDate:    entry.EndDate,
			PlanID:     planID,
		}
		st.PutSubscription(sub)
		st.PutPlanFeatures(sub.ID, &license.PlanFeatures{
			MaxBranches: entry.Plan.MaxBranches,
			Flags:       entry.Plan.Flags,
		})
		st.SetBranchCount(entry.TenantID, entry.Branches)
	}
	return nil
}
