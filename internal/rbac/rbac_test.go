package rbac

import (
	"testing"

	"github.com/sponsorlink/backend/internal/models"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     string
		perm     string
		expected bool
	}{
		{models.RoleBrand, PermManageCampaigns, true},
		{models.RoleBrand, PermModerate, false},
		{models.RoleInfluencer, PermRespondAdRequest, true},
		{models.RoleInfluencer, PermManageCampaigns, false},
		{models.RoleAdmin, PermModerate, true},
		{models.RoleAdmin, PermManageCampaigns, false},
		{"Unknown", PermModerate, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.perm, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.expected)
			}
		})
	}
}

func TestPrimaryRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
		ok    bool
	}{
		{"none", nil, "", false},
		{"brand", []string{models.RoleBrand}, models.RoleBrand, true},
		{"influencer", []string{models.RoleInfluencer}, models.RoleInfluencer, true},
		{"admin wins", []string{models.RoleInfluencer, models.RoleAdmin}, models.RoleAdmin, true},
		{"brand over influencer", []string{models.RoleInfluencer, models.RoleBrand}, models.RoleBrand, true},
		{"unknown only", []string{"Guest"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrimaryRole(tt.roles)
			if got != tt.want || ok != tt.ok {
				t.Errorf("PrimaryRole(%v) = (%q, %v), want (%q, %v)", tt.roles, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHomePath(t *testing.T) {
	if HomePath(models.RoleBrand) != "/brand_home" {
		t.Errorf("brand home = %q", HomePath(models.RoleBrand))
	}
	if HomePath(models.RoleInfluencer) != "/influencer_home" {
		t.Errorf("influencer home = %q", HomePath(models.RoleInfluencer))
	}
	if HomePath(models.RoleAdmin) != "/admin_dashboard" {
		t.Errorf("admin home = %q", HomePath(models.RoleAdmin))
	}
	if HomePath("Guest") != "" {
		t.Errorf("unknown role should have no home")
	}
}

func TestRegistrableRole(t *testing.T) {
	if name, ok := RegistrableRole("brand"); !ok || name != models.RoleBrand {
		t.Errorf("brand slug = (%q, %v)", name, ok)
	}
	if name, ok := RegistrableRole("influencer"); !ok || name != models.RoleInfluencer {
		t.Errorf("influencer slug = (%q, %v)", name, ok)
	}
	if _, ok := RegistrableRole("admin"); ok {
		t.Error("admin must not be registrable")
	}
	for _, slug := range RegistrableSlugs() {
		if _, ok := RegistrableRole(slug); !ok {
			t.Errorf("listed slug %q is not registrable", slug)
		}
	}
}
