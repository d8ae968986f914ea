package models

import (
	"fmt"
	"strings"
)

// Plan is a subscription tier within a role.
type Plan string

const (
	PlanFree  Plan = "FREE"
	PlanPro   Plan = "PRO"
	PlanSuper Plan = "SUPER"
	PlanKing  Plan = "KING"
)

var (
	importerPlans = []Plan{PlanFree, PlanPro, PlanSuper, PlanKing}
	merchantPlans = []Plan{PlanFree, PlanPro}
)

// PlansFor returns the ordered plan set of a role, lowest first.
// Staff roles have no plan.
func PlansFor(r Role) []Plan {
	switch r {
	case RoleImporter:
		return importerPlans
	case RoleMerchant:
		return merchantPlans
	}
	return nil
}

// ParsePlan validates p against the plan set of r.
func ParsePlan(r Role, p string) (Plan, error) {
	plan := Plan(strings.ToUpper(strings.TrimSpace(p)))
	if plan.Rank(r) < 0 {
		return "", fmt.Errorf("plan %q is not offered to %s", p, r)
	}
	return plan, nil
}

// Rank is the position of p within the plan set of r, or -1.
func (p Plan) Rank(r Role) int {
	for i, candidate := range PlansFor(r) {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Badge is the plan label shown under the sidebar identity.
func Badge(r Role, p Plan) string {
	switch r {
	case RoleAdmin:
		return "Root Terminal"
	case RoleTeam:
		return "Team Member"
	case RoleMerchant:
		if p == PlanPro {
			return "Verified Pro Merchant"
		}
		return "Free Merchant"
	}

	switch p {
	case PlanKing:
		return "King Importer"
	case PlanSuper:
		return "Super Importer"
	case PlanPro:
		return "Pro Importer"
	}
	return "Free Importer"
}
