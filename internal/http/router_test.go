package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sponsorlink/backend/internal/auth"
	"github.com/sponsorlink/backend/internal/http/handlers"
	"github.com/sponsorlink/backend/internal/models"
	"github.com/sponsorlink/backend/internal/services"
	"github.com/sponsorlink/backend/internal/services/servicetest"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	app *fiber.App
	db  *servicetest.DB
}

func newTestEnv(t *testing.T, strict bool) testEnv {
	t.Helper()
	db := servicetest.NewDB()
	log := zap.NewNop()
	sessions := auth.NewSessions(auth.SessionConfig{TTL: time.Hour})

	authSvc := services.NewAuthService(db.Users(), db.Roles(), bcrypt.MinCost, log)
	campaignSvc := services.NewCampaignService(db.Campaigns(), db.Brands(), db.Audit(), log)
	adRequestSvc := services.NewAdRequestService(services.AdRequestServiceDeps{
		AdRequests:        db.AdRequests(),
		Campaigns:         db.Campaigns(),
		Brands:            db.Brands(),
		Influencers:       db.Influencers(),
		Roles:             db.Roles(),
		Audit:             db.Audit(),
		StrictTransitions: strict,
		Log:               log,
	})
	adminSvc := services.NewAdminService(services.AdminServiceDeps{
		Users:       db.Users(),
		Roles:       db.Roles(),
		Brands:      db.Brands(),
		Influencers: db.Influencers(),
		Campaigns:   db.Campaigns(),
		AdRequests:  db.AdRequests(),
		Audit:       db.Audit(),
		Log:         log,
	})
	homeSvc := services.NewHomeService(db.Brands(), db.Influencers(), db.Campaigns(), db.AdRequests())

	app := fiber.New(AppConfig(log))
	SetupRouter(app, RouterConfig{Sessions: sessions, Log: log}, Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, sessions, log),
		Register:  handlers.NewRegisterHandler(authSvc, sessions, log),
		Home:      handlers.NewHomeHandler(homeSvc, sessions),
		Campaign:  handlers.NewCampaignHandler(campaignSvc, sessions, log),
		AdRequest: handlers.NewAdRequestHandler(adRequestSvc, sessions, log),
		Admin:     handlers.NewAdminHandler(adminSvc, sessions),
		Meta:      handlers.NewMetaHandler(),
		WS:        handlers.NewWSHub(nil, log),
	})
	return testEnv{app: app, db: db}
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (e testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app}
}

func (b *browser) do(method, path string, form url.Values) *nethttp.Response {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if b.cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "session_id="+b.cookie)
	}

	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "session_id" && ck.Value != "" {
			b.cookie = ck.Value
		}
	}
	return resp
}

func (b *browser) get(path string) *nethttp.Response { return b.do(fiber.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) *nethttp.Response {
	if form == nil {
		form = url.Values{}
	}
	return b.do(fiber.MethodPost, path, form)
}

type page struct {
	OK    bool            `json:"ok"`
	Flash []string        `json:"flash"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func readPage(t *testing.T, resp *nethttp.Response) page {
	t.Helper()
	defer resp.Body.Close()
	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return p
}

func expectRedirect(t *testing.T, resp *nethttp.Response, location string) {
	t.Helper()
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderLocation); got != location {
		t.Fatalf("location = %q, want %q", got, location)
	}
}

func expectStatus(t *testing.T, resp *nethttp.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
}

func registerForm(username, email string) url.Values {
	return url.Values{"username": {username}, "email": {email}, "password": {"pw"}}
}

func summerForm() url.Values {
	return url.Values{
		"name":       {"Summer"},
		"niche":      {"fashion"},
		"start_date": {"2024-06-01"},
		"end_date":   {"2024-08-01"},
		"budget":     {"1000.0"},
	}
}

func campaignsOf(t *testing.T, b *browser) []models.CampaignWithBrand {
	t.Helper()
	resp := b.get("/campaigns")
	expectStatus(t, resp, fiber.StatusOK)
	var data struct {
		Campaigns []models.CampaignWithBrand `json:"campaigns"`
	}
	if err := json.Unmarshal(readPage(t, resp).Data, &data); err != nil {
		t.Fatalf("decode campaigns: %v", err)
	}
	return data.Campaigns
}

func TestIndexRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, false)
	expectRedirect(t, env.browser(t).get("/"), "/login")
}

func TestEndToEnd_BrandCampaignLifecycle(t *testing.T) {
	env := newTestEnv(t, false)

	acme := env.browser(t)
	expectRedirect(t, acme.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")
	acme.get("/logout")

	expectRedirect(t, acme.post("/login", url.Values{"username": {"acme"}, "password": {"pw"}}), "/brand_home")
	expectStatus(t, acme.get("/brand_home"), fiber.StatusOK)

	expectRedirect(t, acme.post("/campaigns/new", summerForm()), "/campaigns")
	list := campaignsOf(t, acme)
	if len(list) != 1 || list[0].Name != "Summer" || list[0].Budget != 1000.0 || list[0].IsPrivate {
		t.Fatalf("acme campaigns = %+v", list)
	}
	campaignPath := func(action string) string {
		return "/campaigns/" + action + "/" + itoa(list[0].ID)
	}

	globex := env.browser(t)
	expectRedirect(t, globex.post("/register/brand", registerForm("globex", "g@x.com")), "/brand_home")
	if other := campaignsOf(t, globex); len(other) != 0 {
		t.Fatalf("globex sees acme campaigns: %+v", other)
	}
	expectStatus(t, globex.post(campaignPath("update"), summerForm()), fiber.StatusForbidden)
	expectStatus(t, globex.post(campaignPath("delete"), nil), fiber.StatusForbidden)

	expectRedirect(t, acme.post(campaignPath("delete"), nil), "/campaigns")
	if rest := campaignsOf(t, acme); len(rest) != 0 {
		t.Fatalf("deleted campaign still listed: %+v", rest)
	}
	expectStatus(t, acme.post(campaignPath("delete"), nil), fiber.StatusNotFound)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, false)
	hash, _ := auth.HashPassword("pw", bcrypt.MinCost)
	env.db.AddUser("ghost", "g@x.com", hash)
	setup := env.browser(t)
	expectRedirect(t, setup.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")

	tests := []struct {
		name     string
		username string
		password string
		flash    string
	}{
		{"wrong password", "acme", "nope", "Invalid username or password"},
		{"zero roles", "ghost", "pw", "No role assigned to this account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := env.browser(t)
			expectRedirect(t, b.post("/login", url.Values{"username": {tt.username}, "password": {tt.password}}), "/login")

			p := readPage(t, b.get("/login"))
			if len(p.Flash) != 1 || p.Flash[0] != tt.flash {
				t.Fatalf("flash = %v, want %q", p.Flash, tt.flash)
			}
			expectRedirect(t, b.get("/brand_home"), "/login")
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")

	other := env.browser(t)
	expectRedirect(t, other.post("/register/influencer", registerForm("acme", "b@x.com")), "/register/influencer")
	p := readPage(t, other.get("/register/influencer"))
	if len(p.Flash) != 1 || p.Flash[0] != "Username already exists" {
		t.Fatalf("flash = %v", p.Flash)
	}
	if n := env.db.UserCount(); n != 1 {
		t.Fatalf("user rows = %d, want 1", n)
	}
}

func TestRegister_SequentialAccountsKeepTheirData(t *testing.T) {
	env := newTestEnv(t, false)
	expectRedirect(t, env.browser(t).post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")
	expectRedirect(t, env.browser(t).post("/register/brand", registerForm("globex", "g@x.com")), "/brand_home")
	expectRedirect(t, env.browser(t).post("/register/influencer", registerForm("lena", "l@x.com")), "/influencer_home")

	if n := env.db.UserCount(); n != 3 {
		t.Fatalf("user rows = %d, want 3", n)
	}
	want := map[string]string{"acme": "a@x.com", "globex": "g@x.com", "lena": "l@x.com"}
	for username, email := range want {
		u, err := env.db.Users().GetByUsername(t.Context(), username)
		if err != nil {
			t.Fatalf("user %s: %v", username, err)
		}
		if u.Email != email {
			t.Errorf("%s email = %q, want %q", username, u.Email, email)
		}
	}
}

func TestRegister_RoleSlugIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectStatus(t, b.get("/register/Brand"), fiber.StatusOK)

	expectRedirect(t, b.post("/register/INFLUENCER", url.Values{
		"username": {"lena"},
		"email":    {"l@x.com"},
		"password": {"pw"},
	}), "/influencer_home")
	expectStatus(t, b.get("/influencer_home"), fiber.StatusOK)

	other := env.browser(t)
	expectRedirect(t, other.post("/register/Brand", registerForm("lena", "x@x.com")), "/register/brand")
}

func TestRegister_UnknownRole(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectStatus(t, b.get("/register/admin"), fiber.StatusNotFound)
	expectStatus(t, b.post("/register/admin", registerForm("root", "r@x.com")), fiber.StatusNotFound)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t, false)
	paths := []string{"/campaigns", "/ad_requests", "/admin_dashboard", "/brand_home", "/influencer_home"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			expectRedirect(t, env.browser(t).get(path), "/login")
		})
	}
	expectRedirect(t, env.browser(t).post("/ad_request/1/accept", nil), "/login")
}

func TestCampaign_MalformedForm(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")

	form := summerForm()
	form.Set("start_date", "June 1st")
	expectRedirect(t, b.post("/campaigns/new", form), "/campaigns/new")

	p := readPage(t, b.get("/campaigns/new"))
	if len(p.Flash) != 1 || !strings.Contains(p.Flash[0], "start_date") {
		t.Fatalf("flash = %v", p.Flash)
	}
}

func TestCampaign_UpdateChecksAccessBeforeForm(t *testing.T) {
	env := newTestEnv(t, false)
	acme := env.browser(t)
	expectRedirect(t, acme.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")
	lena := env.browser(t)
	expectRedirect(t, lena.post("/register/influencer", registerForm("lena", "l@x.com")), "/influencer_home")
	globex := env.browser(t)
	expectRedirect(t, globex.post("/register/brand", registerForm("globex", "g@x.com")), "/brand_home")

	expectRedirect(t, acme.post("/campaigns/new", summerForm()), "/campaigns")
	owned := "/campaigns/update/" + itoa(campaignsOf(t, acme)[0].ID)

	malformed := summerForm()
	malformed.Set("budget", "lots")

	expectStatus(t, acme.post("/campaigns/update/9999", malformed), fiber.StatusNotFound)
	expectStatus(t, globex.post(owned, malformed), fiber.StatusForbidden)
	expectRedirect(t, lena.post("/campaigns/update/9999", malformed), "/login")
	p := readPage(t, lena.get("/login"))
	if len(p.Flash) != 1 || p.Flash[0] != "Unauthorized" {
		t.Fatalf("flash = %v, want [Unauthorized]", p.Flash)
	}

	expectRedirect(t, acme.post(owned, malformed), owned)
}

func TestCampaign_InfluencerIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/influencer", registerForm("lena", "l@x.com")), "/influencer_home")
	expectRedirect(t, b.post("/campaigns/new", summerForm()), "/login")
}

func TestAdRequest_Negotiation(t *testing.T) {
	tests := []struct {
		name         string
		strict       bool
		secondStatus int
		finalStatus  string
	}{
		{"default mode overwrites terminal status", false, fiber.StatusFound, models.AdRequestStatusRejected},
		{"strict mode refuses", true, fiber.StatusConflict, models.AdRequestStatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.strict)
			acme := env.browser(t)
			expectRedirect(t, acme.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")
			lena := env.browser(t)
			expectRedirect(t, lena.post("/register/influencer", registerForm("lena", "l@x.com")), "/influencer_home")
			intruder := env.browser(t)
			expectRedirect(t, intruder.post("/register/brand", registerForm("globex", "g@x.com")), "/brand_home")

			expectRedirect(t, acme.post("/campaigns/new", summerForm()), "/campaigns")
			campaignID := campaignsOf(t, acme)[0].ID

			inf, err := env.db.Influencers().GetByUserID(t.Context(), userIDOf(t, env, "lena"))
			if err != nil {
				t.Fatalf("influencer profile: %v", err)
			}
			expectRedirect(t, acme.post("/campaigns/"+itoa(campaignID)+"/ad_requests", url.Values{
				"influencer_id":  {itoa(inf.ID)},
				"payment_amount": {"500"},
			}), "/ad_requests")

			var list struct {
				AdRequests []models.AdRequestWithCampaign `json:"ad_requests"`
			}
			if err := json.Unmarshal(readPage(t, lena.get("/ad_requests")).Data, &list); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(list.AdRequests) != 1 {
				t.Fatalf("influencer sees %d requests, want 1", len(list.AdRequests))
			}
			arPath := "/ad_request/" + itoa(list.AdRequests[0].ID)

			expectStatus(t, intruder.post(arPath+"/accept", nil), fiber.StatusForbidden)
			expectStatus(t, acme.get("/ad_request/9999/negotiate"), fiber.StatusNotFound)

			expectRedirect(t, acme.post(arPath+"/negotiate", url.Values{"payment_amount": {"750.5"}}), "/ad_requests")
			expectRedirect(t, acme.post(arPath+"/negotiate", url.Values{"payment_amount": {"a lot"}}), arPath+"/negotiate")

			expectRedirect(t, lena.post(arPath+"/accept", nil), "/ad_requests")
			expectStatus(t, lena.post(arPath+"/reject", nil), tt.secondStatus)

			stored, _ := env.db.AdRequest(list.AdRequests[0].ID)
			if stored.Status != tt.finalStatus {
				t.Fatalf("status = %q, want %q", stored.Status, tt.finalStatus)
			}
			if stored.PaymentAmount != 750.5 {
				t.Fatalf("amount = %v, want 750.5", stored.PaymentAmount)
			}
		})
	}
}

func TestAdminDashboard_AnyUser(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/influencer", registerForm("lena", "l@x.com")), "/influencer_home")

	resp := b.get("/admin_dashboard")
	expectStatus(t, resp, fiber.StatusOK)
	var d services.Dashboard
	if err := json.Unmarshal(readPage(t, resp).Data, &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.UserCount != 1 {
		t.Fatalf("user count = %d, want 1", d.UserCount)
	}

	expectStatus(t, b.post("/admin/brands/1/flag", nil), fiber.StatusForbidden)
}

func TestLogoutFlash(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")

	expectRedirect(t, b.get("/logout"), "/login")
	p := readPage(t, b.get("/login"))
	if len(p.Flash) != 1 || p.Flash[0] != "You have been logged out." {
		t.Fatalf("flash = %v", p.Flash)
	}
	expectRedirect(t, b.get("/brand_home"), "/login")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t, false)
	b := env.browser(t)
	expectRedirect(t, b.post("/register/brand", registerForm("acme", "a@x.com")), "/brand_home")
	expectStatus(t, b.get("/ws"), fiber.StatusUpgradeRequired)
}

func userIDOf(t *testing.T, env testEnv, username string) int64 {
	t.Helper()
	u, err := env.db.Users().GetByUsername(t.Context(), username)
	if err != nil {
		t.Fatalf("user %s: %v", username, err)
	}
	return u.ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
