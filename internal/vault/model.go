package vault

// Account tracks a single principal's position in the vault. Balance is
// denominated in the smallest indivisible unit of the asset and never goes
// negative. LastAccrual is the clock reading at which Balance last folded in
// accrued interest; it carries no meaning while Balance is zero and is
// treated as reset rather than stale.
type Account struct {
	Balance     int64
	LastAccrual int64
}

// Empty reports whether the account holds no value. Emptied accounts are kept
// in the store rather than deleted.
func (a Account) Empty() bool {
	return a.Balance == 0
}
