package domain

// roleSet is a small set of account roles.
type roleSet map[AccountRole]struct{}

func roles(rs ...AccountRole) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

func (s roleSet) has(r AccountRole) bool {
	_, ok := s[r]
	return ok
}

// kindRule is one permitted source → destination role pairing.
type kindRule struct {
	source      roleSet
	destination roleSet
}

// kindRules is the structural consistency matrix between a journal kind and the
// roles of the accounts on its outgoing and incoming legs.
var kindRules = map[TransactionKind][]kindRule{
	KindWithdrawal: {
		{source: roles(RoleAsset, RoleLiability), destination: roles(RoleExpense, RoleCash, RoleLiability)},
	},
	KindDeposit: {
		{source: roles(RoleRevenue, RoleCash, RoleLiability), destination: roles(RoleAsset, RoleLiability)},
	},
	KindTransfer: {
		{source: roles(RoleAsset), destination: roles(RoleAsset)},
	},
	KindOpeningBalance: {
		{source: roles(RoleInitialBalance), destination: roles(RoleAsset, RoleLiability)},
		{source: roles(RoleAsset, RoleLiability), destination: roles(RoleInitialBalance)},
	},
	KindReconciliation: {
		{source: roles(RoleReconciliation), destination: roles(RoleAsset)},
		{source: roles(RoleAsset), destination: roles(RoleReconciliation)},
	},
}

// AllowsRoles reports whether a journal of the given kind may move money from an
// account with role source to an account with role destination.
func AllowsRoles(kind TransactionKind, source, destination AccountRole) bool {
	for _, rule := range kindRules[kind] {
		if rule.source.has(source) && rule.destination.has(destination) {
			return true
		}
	}
	return false
}

// AllowsSource reports whether role may appear on the outgoing leg of kind.
func AllowsSource(kind TransactionKind, role AccountRole) bool {
	for _, rule := range kindRules[kind] {
		if rule.source.has(role) {
			return true
		}
	}
	return false
}

// AllowsDestination reports whether role may appear on the incoming leg of kind.
func AllowsDestination(kind TransactionKind, role AccountRole) bool {
	for _, rule := range kindRules[kind] {
		if rule.destination.has(role) {
			return true
		}
	}
	return false
}
