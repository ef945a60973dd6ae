package primo

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// tokenClaims is the subset of the bearer token claims payload we read.
// The token is never verified; only its middle segment is decoded.
type tokenClaims struct {
	DisplayName string `json:"displayName"`
	UserName    string `json:"userName"`
}

// decodeTokenClaims extracts the named claims from a compact bearer token.
// The segment count is validated before any decoding; the claims segment is
// accepted with or without base64 padding.
func decodeTokenClaims(token string) (*tokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, &MalformedResponseError{
			Field:  "jwtData",
			Reason: "token does not have three segments",
		}
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, &MalformedResponseError{
			Field:  "jwtData",
			Reason: "claims segment is not valid base64",
			Err:    err,
		}
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, &MalformedResponseError{
			Field:  "jwtData",
			Reason: "claims segment is not valid JSON",
			Err:    err,
		}
	}

	if claims.DisplayName == "" {
		claims.DisplayName = "Unknown"
	}

	return &claims, nil
}
