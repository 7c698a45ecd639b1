package domain

// AccessPolicy is the tier matrix: the minimum tier required for each entity
// and verb. The three reference deployments of this system disagreed on a few
// cells (notably client/product reads and deposit access), so the matrix is
// deployment configuration rather than code — see config.AccessPolicyConfig.
type AccessPolicy struct {
	UserRead      Tier
	UserWrite     Tier
	UserDelete    Tier
	ClientRead    Tier
	ClientWrite   Tier
	ClientDelete  Tier
	ProductRead   Tier
	ProductWrite  Tier
	ProductDelete Tier
	BillRead      Tier
	BillCreate    Tier
	BillUpdate    Tier
	BillDelete    Tier
	DepositRead   Tier
	DepositWrite  Tier
	DepositDelete Tier
	Balance       Tier
}

// DefaultAccessPolicy returns the authoritative default matrix.
func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{
		UserRead:      TierAdministrator,
		UserWrite:     TierAdministrator,
		UserDelete:    TierAdministrator,
		ClientRead:    TierBasic,
		ClientWrite:   TierAdvanced,
		ClientDelete:  TierAdministrator,
		ProductRead:   TierBasic,
		ProductWrite:  TierAdministrator,
		ProductDelete: TierAdministrator,
		BillRead:      TierBasic,
		BillCreate:    TierBasic,
		BillUpdate:    TierAdvanced,
		BillDelete:    TierAdministrator,
		DepositRead:   TierAdvanced,
		DepositWrite:  TierAdvanced,
		DepositDelete: TierAdministrator,
		Balance:       TierAdvanced,
	}
}
