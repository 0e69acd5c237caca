package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services/servicetest"
	"go.uber.org/zap"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func summerInput() CampaignInput {
	return CampaignInput{
		Name:      "Summer",
		Niche:     "fashion",
		StartDate: date("2024-06-01"),
		EndDate:   date("2024-08-01"),
		Budget:    1000.0,
	}
}

type campaignFixture struct {
	db    *servicetest.DB
	svc   *CampaignService
	acme  int64 // user id owning a brand
	other int64 // user id owning another brand
	plain int64 // user id without brand profile
}

func newCampaignFixture() campaignFixture {
	db := servicetest.NewDB()
	acme := db.AddUser("acme", "a@x.com", "")
	db.AddBrand(acme.ID, "Acme")
	other := db.AddUser("globex", "g@x.com", "")
	db.AddBrand(other.ID, "Globex")
	plain := db.AddUser("lena", "l@x.com", "")

	return campaignFixture{
		db:    db,
		svc:   NewCampaignService(db.Campaigns(), db.Brands(), db.Audit(), zap.NewNop()),
		acme:  acme.ID,
		other: other.ID,
		plain: plain.ID,
	}
}

func TestCampaignService_CreateAndListIsolation(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.acme, summerInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	own, err := f.svc.List(ctx, f.acme)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	count := 0
	for _, row := range own {
		if row.ID == c.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("campaign listed %d times for owner, want 1", count)
	}

	others, err := f.svc.List(ctx, f.other)
	if err != nil {
		t.Fatalf("List other: %v", err)
	}
	for _, row := range others {
		if row.ID == c.ID {
			t.Fatal("campaign leaked into another brand's listing")
		}
	}

	if got := f.db.AuditActions(); len(got) != 1 || got[0] != "campaign_created" {
		t.Errorf("audit = %v", got)
	}
}

func TestCampaignService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CampaignInput)
		wantErr error
	}{
		{"missing name", func(in *CampaignInput) { in.Name = " " }, ErrValidation},
		{"end before start", func(in *CampaignInput) { in.EndDate = date("2024-05-01") }, ErrValidation},
		{"negative budget", func(in *CampaignInput) { in.Budget = -1 }, ErrValidation},
		{"same day", func(in *CampaignInput) { in.EndDate = in.StartDate }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCampaignFixture()
			in := summerInput()
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), f.acme, in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCampaignService_RequiresBrandProfile(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.plain, summerInput()); !errors.Is(err, ErrNoBrandProfile) {
		t.Fatalf("Create err = %v, want ErrNoBrandProfile", err)
	}
	if _, err := f.svc.List(ctx, f.plain); !errors.Is(err, ErrNoBrandProfile) {
		t.Fatalf("List err = %v, want ErrNoBrandProfile", err)
	}
}

func TestCampaignService_UpdateOwnership(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, f.acme, summerInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := summerInput()
	in.Name = "Winter"
	in.IsPrivate = true

	if _, err := f.svc.Update(ctx, f.other, c.ID, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Update(ctx, f.acme, 9999, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing update err = %v, want ErrNotFound", err)
	}

	updated, err := f.svc.Update(ctx, f.acme, c.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Winter" || !updated.IsPrivate {
		t.Fatalf("fields not overwritten: %+v", updated)
	}

	got, err := f.svc.Get(ctx, f.acme, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Winter" {
		t.Fatalf("stored name = %q", got.Name)
	}
}

func TestCampaignService_DeleteTwice(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, f.acme, summerInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.Delete(ctx, f.other, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete err = %v, want ErrForbidden", err)
	}
	if err := f.svc.Delete(ctx, f.acme, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.svc.Delete(ctx, f.acme, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}

	rows, _ := f.svc.List(ctx, f.acme)
	if len(rows) != 0 {
		t.Fatalf("deleted campaign still listed: %+v", rows)
	}
}

func TestCampaignService_DeleteCascadesAdRequests(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()
	c, err := f.svc.Create(ctx, f.acme, summerInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ar := &models.AdRequest{CampaignID: c.ID, InfluencerID: 42, PaymentAmount: 100}
	if err := f.db.AdRequests().Create(ctx, ar); err != nil {
		t.Fatalf("create ad request: %v", err)
	}

	if err := f.svc.Delete(ctx, f.acme, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.db.AdRequest(ar.ID); ok {
		t.Fatal("ad request survived campaign deletion")
	}
}

func TestCampaignService_ListPublic(t *testing.T) {
	f := newCampaignFixture()
	ctx := context.Background()

	pub, _ := f.svc.Create(ctx, f.acme, summerInput())
	priv := summerInput()
	priv.IsPrivate = true
	hidden, _ := f.svc.Create(ctx, f.acme, priv)
	tech := summerInput()
	tech.Niche = "tech"
	techCampaign, _ := f.svc.Create(ctx, f.other, tech)

	rows, err := f.svc.ListPublic(ctx, "fashion")
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != pub.ID {
		t.Fatalf("fashion listing = %+v, want only %d", rows, pub.ID)
	}
	if rows[0].BrandName != "Acme" {
		t.Errorf("brand name = %q", rows[0].BrandName)
	}

	all, _ := f.svc.ListPublic(ctx, "")
	for _, row := range all {
		if row.ID == hidden.ID {
			t.Fatal("private campaign listed publicly")
		}
	}
	if len(all) != 2 {
		t.Fatalf("public listing has %d rows, want 2", len(all))
	}

	globex, _ := f.db.Brands().GetByUserID(ctx, f.other)
	_ = f.db.Brands().SetFlagged(ctx, globex.ID, true)
	all, _ = f.svc.ListPublic(ctx, "")
	for _, row := range all {
		if row.ID == techCampaign.ID {
			t.Fatal("flagged brand's campaign listed publicly")
		}
	}
}
