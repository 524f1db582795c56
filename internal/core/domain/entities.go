package domain

// BalanceBreakdown is the derived balance value object. It is
// recomputed from purchases and withdrawals on every read; nothing in
// it is ever persisted.
type BalanceBreakdown struct {
	CommissionSum            float64 `json:"commissionSum"`
	PrincipalSum             float64 `json:"principalSum"`
	AppreciationSum          float64 `json:"appreciationSum"`
	GrossTotal               float64 `json:"grossTotal"`
	TotalApprovedWithdrawals float64 `json:"totalApprovedWithdrawals"`
	TotalPendingWithdrawals  float64 `json:"totalPendingWithdrawals"`
	AvailableBalance         float64 `json:"availableBalance"`
	PendingBalance           float64 `json:"pendingBalance"`
}

// HasPendingWithdrawals reports whether any withdrawal is still
// awaiting an admin decision.
func (b *BalanceBreakdown) HasPendingWithdrawals() bool {
	return b.TotalPendingWithdrawals > 0
}
