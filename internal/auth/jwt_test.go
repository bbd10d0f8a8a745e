package auth

import (
	"testing"
	"time"
)

func testKeys() Keys {
	return Keys{
		Issuer:        "backoffice-test",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestIssueAndParseAccess(t *testing.T) {
	keys := testKeys()
	pair, err := keys.Issue(42, RoleAgent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := keys.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleAgent {
		t.Errorf("claims = %+v, want id 42 role Agent", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	keys := testKeys()
	pair, err := keys.Issue(42, RoleAgent)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := keys.ParseAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestRefreshIssuesNewAccess(t *testing.T) {
	keys := testKeys()
	pair, err := keys.Issue(7, RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	access, err := keys.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := keys.ParseAccess(access)
	if err != nil {
		t.Fatalf("parse refreshed: %v", err)
	}
	if claims.UserID != 7 || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v, want id 7 role Admin", claims)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	keys := testKeys()
	pair, err := keys.Issue(7, RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := keys.Refresh(pair.AccessToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	keys := testKeys()
	pair, err := keys.Issue(7, RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := keys
	other.Issuer = "someone-else"
	if _, err := other.ParseAccess(pair.AccessToken); err == nil {
		t.Fatal("token accepted with mismatched issuer")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	keys := testKeys()
	keys.AccessTTL = -time.Minute
	pair, err := keys.Issue(7, RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := keys.ParseAccess(pair.AccessToken); err == nil {
		t.Fatal("expired token accepted")
	}
}
