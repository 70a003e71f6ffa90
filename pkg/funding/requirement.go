package funding

import (
	"math/big"
)

// deployerMarginUnits is how many per-account funding units are reserved on
// top of the operator accounts themselves. One extra unit stays with the
// deployer to cover its own gas across the run.
const deployerMarginUnits = 1

// Requirement is the minimum deployer balance for one deployment attempt.
// It is computed once, before any transfer is issued.
type Requirement struct {
	BaseStake     *big.Int
	PerAccount    *big.Int
	AccountCount  int
	TotalRequired *big.Int
}

// ComputeRequirement returns the funding requirement for the given operator
// account count: baseStake + perAccount * (accounts + deployer margin).
func ComputeRequirement(baseStake, perAccount *big.Int, accountCount int) *Requirement {
	units := big.NewInt(int64(accountCount + deployerMarginUnits))
	total := new(big.Int).Mul(perAccount, units)
	total.Add(total, baseStake)

	return &Requirement{
		BaseStake:     new(big.Int).Set(baseStake),
		PerAccount:    new(big.Int).Set(perAccount),
		AccountCount:  accountCount,
		TotalRequired: total,
	}
}

// Satisfied reports whether the given deployer balance meets the
// requirement.
func (r *Requirement) Satisfied(balance *big.Int) bool {
	return balance.Cmp(r.TotalRequired) >= 0
}
