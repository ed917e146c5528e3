package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestSignAndParse(t *testing.T) {
	j, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sid := uuid.New()
	token, err := j.SignToken(&User{Identifier: "13520001", Role: "user", SessionID: sid})
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}

	u, err := j.ParseUser(token)
	if err != nil {
		t.Fatalf("ParseUser() error = %v", err)
	}
	if u.Identifier != "13520001" || u.Role != "user" || u.SessionID != sid {
		t.Errorf("ParseUser() = %+v", u)
	}
	if u.Expires <= time.Now().Unix() {
		t.Errorf("Expires = %d, want a future time", u.Expires)
	}
}

func TestParseUserRejects(t *testing.T) {
	j, _ := New("test-secret", time.Hour)
	other, _ := New("other-secret", time.Hour)

	expired, _ := j.SignToken(&User{
		Identifier: "u1", Role: "user", SessionID: uuid.New(),
		Expires: time.Now().Add(-time.Minute).Unix(),
	})
	foreign, _ := other.SignToken(&User{Identifier: "u1", Role: "user", SessionID: uuid.New()})
	valid, _ := j.SignToken(&User{Identifier: "u1", Role: "user", SessionID: uuid.New()})
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	noneToken := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"uid": "u1", "role": "admin", "sid": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, _ := noneToken.SignedString(gojwt.UnsafeAllowNoneSignatureType)

	badSid := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"uid": "u1", "role": "user", "sid": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	badSidToken, _ := badSid.SignedString([]byte("test-secret"))

	noExp := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"uid": "u1", "role": "user", "sid": uuid.NewString(),
	})
	noExpToken, _ := noExp.SignedString([]byte("test-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired},
		{"wrong key", foreign},
		{"tampered payload", tampered},
		{"alg none", unsigned},
		{"bad session id", badSidToken},
		{"missing exp", noExpToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := j.ParseUser(tt.token); err == nil {
				t.Error("ParseUser() expected error")
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", time.Hour); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := New("k", 0); err == nil {
		t.Error("expected error for zero lifetime")
	}
}
