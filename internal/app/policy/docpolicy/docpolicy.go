// Package docpolicy encodes the document access-control rules enforced at
// the API edge.
//
// Authorization rules:
//   - Unauthenticated principals can write nothing
//   - Admins can read and write every collection
//   - Clients can read and write only their own profile, and create jobs
//     for themselves
//   - Contractors can write their own contractor record (but never its
//     status) and manage providers under it
//   - Providers can read jobs assigned to them
//   - Only admins approve contractors
//
// The trigger service itself runs with direct database access and is not
// subject to these rules; they exist for the client-facing surface and are
// exercised by the rule test suite.
package docpolicy

// Principal identifies the caller of a document operation. An empty UID
// means unauthenticated.
type Principal struct {
	UID  string
	Role string // admin | client | contractor | provider
}

// Authenticated reports whether the principal has a logged-in identity.
func (p Principal) Authenticated() bool {
	return p.UID != ""
}

// Admin reports whether the principal holds the admin role.
func (p Principal) Admin() bool {
	return p.Authenticated() && p.Role == "admin"
}

// CanReadClientProfile reports whether p may read the client profile owned
// by ownerUID.
func CanReadClientProfile(p Principal, ownerUID string) bool {
	if p.Admin() {
		return true
	}
	return p.Authenticated() && p.Role == "client" && p.UID == ownerUID
}

// CanWriteClientProfile reports whether p may write the client profile
// owned by ownerUID. Clients write only their own profile.
func CanWriteClientProfile(p Principal, ownerUID string) bool {
	if p.Admin() {
		return true
	}
	return p.Authenticated() && p.Role == "client" && p.UID == ownerUID
}

// CanWriteContractor reports whether p may write non-status fields of the
// contractor record owned by ownerUID.
func CanWriteContractor(p Principal, ownerUID string) bool {
	if p.Admin() {
		return true
	}
	return p.Authenticated() && p.Role == "contractor" && p.UID == ownerUID
}

// CanApproveContractor reports whether p may transition a contractor's
// status. Approval is the admin review flow; owners cannot approve
// themselves.
func CanApproveContractor(p Principal) bool {
	return p.Admin()
}

// CanWriteProvider reports whether p may create or edit a provider under
// the contractor owned by contractorOwnerUID.
func CanWriteProvider(p Principal, contractorOwnerUID string) bool {
	if p.Admin() {
		return true
	}
	return p.Authenticated() && p.Role == "contractor" && p.UID == contractorOwnerUID
}

// CanCreateJob reports whether p may create a job on behalf of clientUID.
func CanCreateJob(p Principal, clientUID string) bool {
	if p.Admin() {
		return true
	}
	return p.Authenticated() && p.Role == "client" && p.UID == clientUID
}

// CanReadJob reports whether p may read a job between clientUID and
// providerUID.
func CanReadJob(p Principal, clientUID, providerUID string) bool {
	if p.Admin() {
		return true
	}
	if !p.Authenticated() {
		return false
	}
	switch p.Role {
	case "client":
		return p.UID == clientUID
	case "provider":
		return p.UID == providerUID
	default:
		return false
	}
}
