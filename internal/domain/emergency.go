package domain

import "time"

// EmergencyState is the derived phase of the contract's timelocked
// emergency-withdraw procedure.
type EmergencyState string

const (
	EmergencyInactive EmergencyState = "inactive"
	EmergencyPending  EmergencyState = "pending"
	EmergencyReady    EmergencyState = "ready"
)

// EmergencyWithdrawStatus mirrors the contract's global emergency
// withdraw slot. ReadyAt is meaningful only while Enabled.
type EmergencyWithdrawStatus struct {
	Enabled bool
	ReadyAt time.Time
}

// State derives the phase at the given instant.
func (s EmergencyWithdrawStatus) State(now time.Time) EmergencyState {
	switch {
	case !s.Enabled:
		return EmergencyInactive
	case now.Before(s.ReadyAt):
		return EmergencyPending
	default:
		return EmergencyReady
	}
}

// IsReady reports whether the timelock has elapsed.
func (s EmergencyWithdrawStatus) IsReady(now time.Time) bool {
	return s.Enabled && !now.Before(s.ReadyAt)
}
