package domain

// Scope is the acting user's resolved identity and visibility, handed to the
// core by the authentication collaborator. Core operations never consult an
// ambient "current user"; everything flows through an explicit Scope.
type Scope struct {
	UserID     int64
	CompanyID  int64
	Role       string
	StoreIDs   []int64 // stores the user may act on; empty means all company stores
	CanApprove bool    // whether the user may approve transactions and settlements
}

func (s Scope) CanAccessStore(storeID int64) bool {
	if len(s.StoreIDs) == 0 {
		return true
	}
	for _, id := range s.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}
