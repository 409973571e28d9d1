package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/fauxplay/internal/core/install"
)

// InstallsCheck detects registry records whose executable no longer exists.
type InstallsCheck struct {
	installs install.Store
	fix      bool
}

// NewInstallsCheck creates a new installation check.
// If fix is true, stale records are removed from the registry.
func NewInstallsCheck(installs install.Store, fix bool) *InstallsCheck {
	return &InstallsCheck{
		installs: installs,
		fix:      fix,
	}
}

func (c *InstallsCheck) Name() string {
	return "Installations"
}

func (c *InstallsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	insts, err := c.installs.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "List installations",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	var stale []install.Installation
	for _, inst := range insts {
		if _, err := os.Stat(inst.ExePath()); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, inst)
		}
	}

	if len(stale) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "Registry",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d installation(s), all present on disk", len(insts)),
		})
		return result
	}

	for _, inst := range stale {
		label := fmt.Sprintf("%s (%s)", inst.DisplayName(), inst.ID)

		if !c.fix {
			result.Items = append(result.Items, CheckItem{
				Label:   label,
				Status:  StatusWarn,
				Detail:  "executable missing: " + inst.ExePath(),
				Fixable: true,
			})
			continue
		}

		if err := c.installs.Delete(ctx, inst.ID); err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusFail,
				Detail: fmt.Sprintf("failed to remove record: %v", err),
			})
			continue
		}
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusPass,
			Detail: "removed stale record",
		})
	}

	return result
}
