// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package deploy

import (
	"context"

	"github.com/moneyswap/swapops/internal/command"
)

// Systemd drives the host's service manager through systemctl.
type Systemd struct {
	runner command.Runner
}

// NewSystemd creates a Systemd manager.
func NewSystemd(runner command.Runner) *Systemd {
	return &Systemd{runner: runner}
}

// Restart restarts a unit. systemctl blocks until the unit has been
// restarted (or failed to), so a non-nil error means the restart did not
// take effect.
func (s *Systemd) Restart(ctx context.Context, unit string) error {
	return s.runner.Run(ctx, command.Spec{
		Name: "restart-" + unit,
		Path: "systemctl",
		Args: []string{"restart", unit},
	})
}

// IsActive returns the unit's activation state ("active", "inactive",
// "failed", ...). systemctl exits non-zero for any state other than active;
// the state string is still reported so callers can distinguish them.
func (s *Systemd) IsActive(ctx context.Context, unit string) (string, error) {
	out, err := s.runner.Output(ctx, command.Spec{
		Name: "is-active-" + unit,
		Path: "systemctl",
		Args: []string{"is-active", unit},
	})
	if out == "" && err != nil {
		return "unknown", err
	}
	return out, nil
}
