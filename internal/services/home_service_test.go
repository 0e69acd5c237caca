package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services/servicetest"
)

func TestHomeService(t *testing.T) {
	db := servicetest.NewDB()
	ctx := context.Background()
	svc := NewHomeService(db.Brands(), db.Influencers(), db.Campaigns(), db.AdRequests())

	bu := db.AddUser("acme", "a@x.com", "")
	brand := db.AddBrand(bu.ID, "Acme")
	iu := db.AddUser("lena", "l@x.com", "")
	inf := db.AddInfluencer(iu.ID, "Lena", "fashion", nil)

	fashion := &models.Campaign{BrandID: brand.ID, Name: "Summer", Niche: "fashion"}
	tech := &models.Campaign{BrandID: brand.ID, Name: "Gadgets", Niche: "tech"}
	_ = db.Campaigns().Create(ctx, fashion)
	_ = db.Campaigns().Create(ctx, tech)
	_ = db.AdRequests().Create(ctx, &models.AdRequest{CampaignID: fashion.ID, InfluencerID: inf.ID, PaymentAmount: 100})

	bh, err := svc.BrandHome(ctx, bu.ID)
	if err != nil {
		t.Fatalf("BrandHome: %v", err)
	}
	if bh.Brand.ID != brand.ID || len(bh.Campaigns) != 2 {
		t.Fatalf("brand home = %+v", bh)
	}

	ih, err := svc.InfluencerHome(ctx, iu.ID)
	if err != nil {
		t.Fatalf("InfluencerHome: %v", err)
	}
	if len(ih.Campaigns) != 1 || ih.Campaigns[0].ID != fashion.ID {
		t.Fatalf("influencer campaigns = %+v, want only the fashion campaign", ih.Campaigns)
	}
	if len(ih.AdRequests) != 1 {
		t.Fatalf("influencer ad requests = %d, want 1", len(ih.AdRequests))
	}

	if _, err := svc.BrandHome(ctx, iu.ID); !errors.Is(err, ErrNoBrandProfile) {
		t.Fatalf("err = %v, want ErrNoBrandProfile", err)
	}
	if _, err := svc.InfluencerHome(ctx, bu.ID); !errors.Is(err, ErrNoInfluencer) {
		t.Fatalf("err = %v, want ErrNoInfluencer", err)
	}
}
