package mobilemoney

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HMACVerifier authenticates webhook bodies signed with HMAC-SHA256 under the shared
// webhook secret. The signature header carries the lower-case hex digest.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) HMACVerifier {
	return HMACVerifier{secret: []byte(secret)}
}

func (v HMACVerifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 || signature == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil {
		return false
	}
	return hmac.Equal(got, v.sign(body))
}

// Sign returns the hex signature of body. The sandbox uses it to produce callbacks.
func (v HMACVerifier) Sign(body []byte) string {
	return hex.EncodeToString(v.sign(body))
}

func (v HMACVerifier) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return mac.Sum(nil)
}
