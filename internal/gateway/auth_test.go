package gateway

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("alice", 42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	username, userID, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if username != "alice" || userID != 42 {
		t.Errorf("解析结果 = (%q, %d), want (alice, 42)", username, userID)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := IssueToken("alice", 42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"
	if _, _, err := ValidateToken(tampered); err == nil {
		t.Error("篡改签名的令牌应校验失败")
	}
}

func TestValidateTokenEmpty(t *testing.T) {
	if _, _, err := ValidateToken(""); err == nil {
		t.Error("空令牌应校验失败")
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/auth/validate", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	if got := bearerToken(r); got != "abc123" {
		t.Errorf("bearerToken() = %q, want abc123", got)
	}

	r = httptest.NewRequest("GET", "/auth/validate?token=query456", nil)
	if got := bearerToken(r); got != "query456" {
		t.Errorf("bearerToken() = %q, want query456", got)
	}
}

func TestHashPasswordStable(t *testing.T) {
	a := hashPassword("password123")
	b := hashPassword("password123")
	if a != b {
		t.Error("相同输入应得到相同哈希")
	}
	if a == hashPassword("password124") {
		t.Error("不同输入不应得到相同哈希")
	}
	if len(a) != 64 {
		t.Errorf("哈希长度 = %d, want 64", len(a))
	}
}
