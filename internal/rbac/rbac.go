package rbac

import "github.com/sponsorlink/backend/internal/models"

// Permission constants
const (
	PermManageCampaigns  = "manage_campaigns"
	PermCreateAdRequest  = "create_ad_request"
	PermRespondAdRequest = "respond_ad_request"
	PermNegotiate        = "negotiate"
	PermBrowseCampaigns  = "browse_campaigns"
	PermModerate         = "moderate"
	PermViewAllRequests  = "view_all_ad_requests"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	models.RoleBrand: {
		PermManageCampaigns, PermCreateAdRequest, PermRespondAdRequest, PermNegotiate,
	},
	models.RoleInfluencer: {
		PermRespondAdRequest, PermNegotiate, PermBrowseCampaigns,
	},
	models.RoleAdmin: {
		PermModerate, PermViewAllRequests,
	},
}

// landingPrecedence picks the landing role when a user holds more than one.
var landingPrecedence = []string{models.RoleAdmin, models.RoleBrand, models.RoleInfluencer}

var homePaths = map[string]string{
	models.RoleInfluencer: "/influencer_home",
	models.RoleBrand:      "/brand_home",
	models.RoleAdmin:      "/admin_dashboard",
}

// registrable maps the URL slug of /register/:role to the role name.
var registrable = map[string]string{
	"brand":      models.RoleBrand,
	"influencer": models.RoleInfluencer,
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether any of roles grants permission.
func HasAnyPermission(roles []string, permission string) bool {
	for _, r := range roles {
		if HasPermission(r, permission) {
			return true
		}
	}
	return false
}

// PrimaryRole returns the role used for routing after login.
func PrimaryRole(roles []string) (string, bool) {
	for _, candidate := range landingPrecedence {
		for _, r := range roles {
			if r == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}

// HomePath returns the landing route of a role, or "" for unknown roles.
func HomePath(role string) string {
	return homePaths[role]
}

// RegistrableRole resolves a registration slug such as "brand" to its role name.
func RegistrableRole(slug string) (string, bool) {
	name, ok := registrable[slug]
	return name, ok
}

// RegistrableSlugs lists the slugs accepted by /register/:role.
func RegistrableSlugs() []string {
	return []string{"brand", "influencer"}
}
