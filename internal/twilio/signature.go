package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sort"
	"strings"
)

// RequestValidator checks the X-Twilio-Signature header on inbound webhooks.
//
// Twilio signs the full request URL concatenated with the POST parameters
// sorted by key, HMAC-SHA1 keyed with the account auth token, base64 encoded.
type RequestValidator struct {
	authToken []byte
}

func NewRequestValidator(authToken string) *RequestValidator {
	return &RequestValidator{authToken: []byte(authToken)}
}

// Validate reports whether the provided signature matches the expected
// signature for url and params. It never fails hard on unknown or missing
// fields; any malformed input simply yields false.
func (v *RequestValidator) Validate(url string, params map[string]string, signature string) bool {
	if url == "" || signature == "" {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, v.authToken)
	mac.Write([]byte(url))
	for _, k := range keys {
		mac.Write([]byte(k))
		mac.Write([]byte(params[k]))
	}
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ValidateRequest reconstructs the canonical URL Twilio signed from an
// already-parsed form request and validates its signature header.
func (v *RequestValidator) ValidateRequest(r *http.Request) bool {
	params := make(map[string]string, len(r.PostForm))
	for k, vals := range r.PostForm {
		if len(vals) > 0 {
			params[k] = vals[0]
		}
	}
	return v.Validate(requestURL(r), params, r.Header.Get("X-Twilio-Signature"))
}

// requestURL rebuilds scheme://host/path?query exactly as the provider saw
// it. Scheme honors X-Forwarded-Proto so validation survives TLS-terminating
// proxies.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
