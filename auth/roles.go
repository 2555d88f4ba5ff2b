package auth

import "github.com/rabbikazmi/HackingDelhi/models"

// Role groups for gated endpoints.
var (
	ReviewRoles     = []string{models.RoleSupervisor, models.RoleDistrictAdmin}
	AnalyticsRoles  = []string{models.RoleStateAnalyst, models.RolePolicyMaker, models.RoleDistrictAdmin}
	SimulationRoles = []string{models.RolePolicyMaker}
	AuditRoles      = []string{models.RoleStateAnalyst, models.RoleDistrictAdmin}
)

func HasRole(u models.User, roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
