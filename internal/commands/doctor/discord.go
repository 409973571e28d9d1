package doctor

import (
	"context"
	"time"
)

// ProbeFunc dials the presence IPC endpoint without a handshake.
type ProbeFunc func(ctx context.Context, path string) error

// DiscordCheck verifies that a local Discord client is listening.
type DiscordCheck struct {
	probe   ProbeFunc
	path    string
	timeout time.Duration
}

// NewDiscordCheck creates a new IPC reachability check. An empty path probes
// the default endpoints.
func NewDiscordCheck(probe ProbeFunc, path string) *DiscordCheck {
	return &DiscordCheck{probe: probe, path: path, timeout: 2 * time.Second}
}

func (c *DiscordCheck) Name() string {
	return "Discord"
}

func (c *DiscordCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label := "IPC endpoint"
	if c.path != "" {
		label += " " + c.path
	}

	// Presence works once Discord is started, so an unreachable client is
	// only a warning.
	if err := c.probe(ctx, c.path); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusWarn,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  label,
		Status: StatusPass,
		Detail: "client is listening",
	})
	return result
}
