package auth

// Role is the closed permission tier assigned to every identity at sign-up.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleStaff     Role = "staff"
	RoleCandidate Role = "candidate"
	RoleAdmin     Role = "admin"
)

var AllRoles = []Role{RoleCitizen, RoleStaff, RoleCandidate, RoleAdmin}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCitizen, RoleStaff, RoleCandidate, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Capability is a named action checked against the grant table below.
// Call sites never compare roles directly; the table is the single
// authority on which tier may do what.
type Capability string

const (
	CapSubmitRequest          Capability = "request.submit"
	CapManageRequests         Capability = "request.manage"
	CapManagePriority         Capability = "request.priority"
	CapManageAssignment       Capability = "request.assign"
	CapViewDashboard          Capability = "dashboard.view"
	CapViewAnalytics          Capability = "analytics.view"
	CapManageNews             Capability = "news.manage"
	CapManageTeam             Capability = "team.manage"
	CapManageCandidateContent Capability = "candidate.manage"
	CapEditMemberProfile      Capability = "team.edit_profile"
)

// The tiers are not strictly nested: staff manages requests and news but
// cannot touch priority, assignment or analytics, which belong to
// candidate and admin. Team management is admin only.
var capabilityGrants = map[Capability]map[Role]bool{
	CapSubmitRequest:          {RoleCitizen: true},
	CapManageRequests:         {RoleStaff: true, RoleCandidate: true, RoleAdmin: true},
	CapManagePriority:         {RoleCandidate: true, RoleAdmin: true},
	CapManageAssignment:       {RoleCandidate: true, RoleAdmin: true},
	CapViewDashboard:          {RoleStaff: true, RoleCandidate: true, RoleAdmin: true},
	CapViewAnalytics:          {RoleCandidate: true, RoleAdmin: true},
	CapManageNews:             {RoleStaff: true, RoleCandidate: true, RoleAdmin: true},
	CapManageTeam:             {RoleAdmin: true},
	CapManageCandidateContent: {RoleCandidate: true, RoleAdmin: true},
	CapEditMemberProfile:      {RoleStaff: true, RoleCandidate: true, RoleAdmin: true},
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
	grants, ok := capabilityGrants[c]
	if !ok {
		return false
	}
	return grants[r]
}
