package guard

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/AJIyanu/msdbc/internal/session"
)

type fakeProvider struct {
	sess       *session.Session
	getErr     error
	refreshed  *session.Session
	refreshErr error

	getCalls     int
	refreshCalls int
	signOutCalls int
}

func (f *fakeProvider) GetSession(ctx context.Context) (*session.Session, error) {
	f.getCalls++
	return f.sess, f.getErr
}

func (f *fakeProvider) RefreshSession(ctx context.Context) (*session.Session, error) {
	f.refreshCalls++
	return f.refreshed, f.refreshErr
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.signOutCalls++
	return nil
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func liveSession(remaining time.Duration) *session.Session {
	return &session.Session{
		ID:        "s1",
		Subject:   "staff@example.org",
		IssuedAt:  testNow.Add(-time.Hour),
		ExpiresAt: testNow.Add(remaining),
		Deadline:  testNow.Add(24 * time.Hour),
	}
}

func TestClassify(t *testing.T) {
	routes := DefaultRoutes()
	cases := []struct {
		path string
		want RouteClass
	}{
		{"/static/app.js", ClassBypass},
		{"/api/auth/login", ClassBypass},
		{"/favicon.ico", ClassBypass},
		{"/records/export.csv", ClassBypass},
		{"/logout", ClassLogout},
		{"/login", ClassPublicAuth},
		{"/register", ClassPublicAuth},
		{"/forgot-password", ClassPublicAuth},
		{"/reset-password", ClassPublicAuth},
		{"/records", ClassProtected},
		{"/records/financials/tithes", ClassProtected},
		{"/dashboard", ClassProtected},
		{"/profile", ClassProtected},
		{"/settings", ClassProtected},
		{"/", ClassOther},
		{"/about", ClassOther},
	}
	for _, tc := range cases {
		if got := routes.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestBypassNeverChecksSession(t *testing.T) {
	routes := DefaultRoutes()
	provider := &fakeProvider{getErr: errors.New("should not be called")}
	for _, path := range []string{"/static/app.js", "/api/reports", "/favicon.ico", "/metrics"} {
		d := Decide(context.Background(), routes, path, provider, testNow)
		if d.Action != ActionAllow {
			t.Errorf("bypass path %q: got action %v, want allow", path, d.Action)
		}
	}
	if provider.getCalls != 0 || provider.refreshCalls != 0 {
		t.Errorf("bypass paths touched the provider: get=%d refresh=%d", provider.getCalls, provider.refreshCalls)
	}
}

func TestLogoutSignsOutAndRedirects(t *testing.T) {
	routes := DefaultRoutes()
	provider := &fakeProvider{}
	d := Decide(context.Background(), routes, "/logout", provider, testNow)
	if provider.signOutCalls != 1 {
		t.Fatalf("sign out calls = %d, want 1", provider.signOutCalls)
	}
	if d.Action != ActionRedirect || d.Target != "/login" {
		t.Fatalf("got %+v, want redirect to /login", d)
	}
	if !d.SignedOut {
		t.Fatal("decision should carry the sign-out")
	}
	if provider.getCalls != 0 {
		t.Fatal("logout must not look the session up")
	}
}

func TestProtectedWithoutSessionRedirectsWithReturnURL(t *testing.T) {
	routes := DefaultRoutes()
	cases := []struct {
		name     string
		provider *fakeProvider
	}{
		{"no session", &fakeProvider{}},
		{"lookup error", &fakeProvider{getErr: errors.New("redis down")}},
		{"expired session", &fakeProvider{sess: liveSession(-time.Minute)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := "/records/financials/tithes"
			d := Decide(context.Background(), routes, path, tc.provider, testNow)
			if d.Action != ActionRedirect {
				t.Fatalf("got action %v, want redirect", d.Action)
			}
			want := "/login?returnUrl=%2Frecords%2Ffinancials%2Ftithes"
			if d.Target != want {
				t.Fatalf("target = %q, want %q", d.Target, want)
			}
			u, err := url.Parse(d.Target)
			if err != nil {
				t.Fatal(err)
			}
			if got := u.Query().Get("returnUrl"); got != path {
				t.Fatalf("decoded returnUrl = %q, want %q", got, path)
			}
		})
	}
}

func TestNonProtectedWithoutSessionAllows(t *testing.T) {
	routes := DefaultRoutes()
	for _, path := range []string{"/", "/about", "/login"} {
		provider := &fakeProvider{getErr: errors.New("redis down")}
		d := Decide(context.Background(), routes, path, provider, testNow)
		if d.Action != ActionAllow {
			t.Errorf("path %q: got action %v, want allow", path, d.Action)
		}
	}
}

func TestAuthenticatedOnPublicAuthPathBouncesToRecords(t *testing.T) {
	routes := DefaultRoutes()
	for _, path := range []string{"/login", "/register", "/forgot-password", "/reset-password"} {
		provider := &fakeProvider{sess: liveSession(2 * time.Hour)}
		d := Decide(context.Background(), routes, path, provider, testNow)
		if d.Action != ActionRedirect || d.Target != "/records" {
			t.Errorf("path %q: got %+v, want redirect to /records", path, d)
		}
	}
}

func TestNearExpiryRefreshesExactlyOnce(t *testing.T) {
	routes := DefaultRoutes()
	refreshed := liveSession(time.Hour)
	provider := &fakeProvider{sess: liveSession(5 * time.Minute), refreshed: refreshed}

	d := Decide(context.Background(), routes, "/records", provider, testNow)
	if provider.refreshCalls != 1 {
		t.Fatalf("refresh calls = %d, want 1", provider.refreshCalls)
	}
	if d.Action != ActionAllow {
		t.Fatalf("got action %v, want allow", d.Action)
	}
	if d.Refreshed != refreshed {
		t.Fatal("decision should carry the refreshed session")
	}
}

func TestFarFromExpiryDoesNotRefresh(t *testing.T) {
	routes := DefaultRoutes()
	provider := &fakeProvider{sess: liveSession(time.Hour)}
	d := Decide(context.Background(), routes, "/records", provider, testNow)
	if provider.refreshCalls != 0 {
		t.Fatalf("refresh calls = %d, want 0", provider.refreshCalls)
	}
	if d.Action != ActionAllow || d.Refreshed != nil {
		t.Fatalf("got %+v, want plain allow", d)
	}
}

func TestRefreshFailure(t *testing.T) {
	routes := DefaultRoutes()

	t.Run("protected redirects to login", func(t *testing.T) {
		provider := &fakeProvider{sess: liveSession(5 * time.Minute), refreshErr: errors.New("refresh denied")}
		d := Decide(context.Background(), routes, "/records", provider, testNow)
		if d.Action != ActionRedirect || d.Target != "/login" {
			t.Fatalf("got %+v, want redirect to /login", d)
		}
	})

	t.Run("other allows with stale session", func(t *testing.T) {
		provider := &fakeProvider{sess: liveSession(5 * time.Minute), refreshErr: errors.New("refresh denied")}
		d := Decide(context.Background(), routes, "/about", provider, testNow)
		if d.Action != ActionAllow {
			t.Fatalf("got action %v, want allow", d.Action)
		}
	})
}
