// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the outcome of a search over diversion increases.
type Summary struct {
	Min            float64  `json:"min"`
	Max            float64  `json:"max"`
	Best           float64  `json:"best"`
	BestBalance    int64    `json:"bestBalance"`
	BestAvoided    int      `json:"bestAvoided"`
	BreakEven      *float64 `json:"breakEven,omitempty"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
	BestDisplay    string   `json:"bestDisplay,omitempty"`
	BalanceDisplay string   `json:"balanceDisplay,omitempty"`
}

// Profitable reports whether any evaluated increase produced a positive balance.
func (s Summary) Profitable() bool {
	return s.BestBalance > 0
}
