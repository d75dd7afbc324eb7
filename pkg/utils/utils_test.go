package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

func TestJWTManagerVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken(Principal{UserID: "u1", TenantID: "t1", Email: "a@b.c", Roles: []string{RoleStaff}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	p, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.TenantID != "t1" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if !p.HasPermission(PermInvoicesWrite) || p.HasPermission(PermBranchesWrite) {
		t.Fatalf("staff permissions not derived from role: %v", p.Permissions)
	}
}

func TestJWTManagerRejectsForeignSignature(t *testing.T) {
	token, err := NewJWTManager("a", time.Hour, time.Hour).GenerateAccessToken(Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("b", time.Hour, time.Hour).Verify(context.Background(), token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestRefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	token, err := m.GenerateRefreshToken("u9")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	uid, err := m.ValidateRefreshToken(token)
	if err != nil || uid != "u9" {
		t.Fatalf("expected u9, got %q (%v)", uid, err)
	}
	if _, err := m.Verify(context.Background(), token); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

type fakeIDTokens struct {
	token *fbauth.Token
	err   error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifierReadsCustomClaims(t *testing.T) {
	v := NewFirebaseVerifier(fakeIDTokens{token: &fbauth.Token{
		UID: "fb-1",
		Claims: map[string]interface{}{
			"tenantId": "salon-7",
			"email":    "owner@salon.test",
			"roles":    []interface{}{"manager"},
		},
	}})

	p, err := v.Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.TenantID != "salon-7" || p.Email != "owner@salon.test" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if !p.HasRole(RoleManager) || !p.HasPermission(PermDashboardRead) {
		t.Fatalf("expected manager permissions, got %v", p.Permissions)
	}
}

func TestFirebaseVerifierErrors(t *testing.T) {
	if _, err := NewFirebaseVerifier(fakeIDTokens{err: errors.New("expired")}).Verify(context.Background(), "x"); err == nil {
		t.Fatalf("expected verify error")
	}
	if _, err := NewFirebaseVerifier(fakeIDTokens{token: &fbauth.Token{}}).Verify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for empty uid")
	}
	if _, err := NewFirebaseVerifier(nil).Verify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without client")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hair Care":       "hair-care",
		"  Nails & Spa  ": "nails-spa",
		"--Beard--Oil--":  "beard-oil",
		"Colour 2024":     "colour-2024",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateInvoiceNo(t *testing.T) {
	no := GenerateInvoiceNo("INV-")
	if !strings.HasPrefix(no, "INV-") || len(no) != len("INV-")+8 {
		t.Fatalf("unexpected invoice number %q", no)
	}
	if strings.ToUpper(no) != no {
		t.Fatalf("invoice number should be upper case: %q", no)
	}
}
