package webhooks

import "testing"

func TestSign_KnownVector(t *testing.T) {
	// echo -n "payload" | openssl dgst -sha256 -hmac "secret"
	expected := "b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4"

	if got := Sign("secret", []byte("payload")); got != expected {
		t.Errorf("Sign() = %v, want %v", got, expected)
	}
}

func TestVerify(t *testing.T) {
	body := []byte(`{"event":"task.created","data":{"nested":{"k":[1,2,3]}},"timestamp":"2026-01-02T03:04:05Z"}`)

	sig := Sign("whsec_abc", body)
	if !Verify("whsec_abc", body, sig) {
		t.Error("signature did not verify against its own body")
	}
	if Verify("whsec_other", body, sig) {
		t.Error("signature verified under the wrong secret")
	}
	if Verify("whsec_abc", append(body, ' '), sig) {
		t.Error("signature verified against a modified body")
	}
}

func TestSign_EmptyPayload(t *testing.T) {
	sig := Sign("s", nil)
	if len(sig) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(sig))
	}
	if !Verify("s", []byte{}, sig) {
		t.Error("nil and empty payload should sign identically")
	}
}
