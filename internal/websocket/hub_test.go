package websocket

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func wsRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	q := req.URL.Query()
	if token != "" {
		q.Set("token", token)
	}
	req.URL.RawQuery = q.Encode()
	return req
}

func TestHandleWebSocket_RejectsMissingToken(t *testing.T) {
	hub := NewHub(nil, "test-secret")

	rr := httptest.NewRecorder()
	hub.HandleWebSocket(rr, wsRequest(""))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rr.Code)
	}
}

func TestHandleWebSocket_RejectsUnsignedToken(t *testing.T) {
	hub := NewHub(nil, "test-secret")

	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	rr := httptest.NewRecorder()
	hub.HandleWebSocket(rr, wsRequest(unsigned))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for alg=none token, got %d", rr.Code)
	}
}

func TestHandleWebSocket_RejectsWrongSecret(t *testing.T) {
	hub := NewHub(nil, "test-secret")

	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	rr := httptest.NewRecorder()
	hub.HandleWebSocket(rr, wsRequest(forged))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token signed with another secret, got %d", rr.Code)
	}
}
