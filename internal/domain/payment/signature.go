package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Authenticity is the result of checking a webhook signature. A mismatch
// is an expected outcome, not an error.
type Authenticity int

const (
	// AuthenticityUnknown: header missing or malformed, or no secret set.
	AuthenticityUnknown Authenticity = iota
	// AuthenticitySuspect: header well formed but the digest does not match.
	AuthenticitySuspect
	AuthenticityVerified
)

func (a Authenticity) String() string {
	switch a {
	case AuthenticityVerified:
		return "verified"
	case AuthenticitySuspect:
		return "suspect"
	default:
		return "unknown"
	}
}

// Signature is the parsed x-signature header, "ts=<unix>,v1=<hex>".
type Signature struct {
	Timestamp string
	V1        string
}

// ParseSignatureHeader splits the header into its ts and v1 parts. ok is
// false when either part is missing or v1 is not hex.
func ParseSignatureHeader(header string) (Signature, bool) {
	var sig Signature
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "ts":
			sig.Timestamp = strings.TrimSpace(kv[1])
		case "v1":
			sig.V1 = strings.TrimSpace(kv[1])
		}
	}
	if sig.Timestamp == "" || sig.V1 == "" {
		return Signature{}, false
	}
	if _, err := hex.DecodeString(sig.V1); err != nil {
		return Signature{}, false
	}
	return sig, true
}

// Manifest is the canonical string the gateway signs.
func Manifest(id, requestID, ts string) string {
	return "id:" + id + ";request-id:" + requestID + ";ts:" + ts + ";"
}

// Sign returns the hex HMAC-SHA256 of the manifest.
func Sign(secret, id, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Manifest(id, requestID, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks header against the manifest built from id and
// requestID. The comparison is constant time.
func VerifySignature(secret, id, requestID, header string) Authenticity {
	if secret == "" {
		return AuthenticityUnknown
	}
	sig, ok := ParseSignatureHeader(header)
	if !ok {
		return AuthenticityUnknown
	}

	expected, _ := hex.DecodeString(Sign(secret, id, requestID, sig.Timestamp))
	provided, _ := hex.DecodeString(strings.ToLower(sig.V1))
	if hmac.Equal(expected, provided) {
		return AuthenticityVerified
	}
	return AuthenticitySuspect
}
