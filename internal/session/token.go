package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
)

// DecodeIdentity derives the user identity from the upstream access token.
// The identity service owns the signing key, so the claims are decoded
// without signature verification — the token is only forwarded upstream,
// never trusted for local authorization beyond routing by role.
// Any malformed token yields an error and the caller treats the user as
// logged out.
func DecodeIdentity(accessToken string) (model.Identity, error) {
	var claims jwt.MapClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return model.Identity{}, fmt.Errorf("parse access token: %w", err)
	}

	identity := model.Identity{}

	switch id := claims["user_id"].(type) {
	case float64:
		identity.SubjectID = int64(id)
	default:
		// Some issuers put the numeric id in the standard subject claim.
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return model.Identity{}, errors.New("access token carries no user id")
		}
		if _, err := fmt.Sscanf(sub, "%d", &identity.SubjectID); err != nil {
			return model.Identity{}, fmt.Errorf("non-numeric subject %q", sub)
		}
	}

	if username, ok := claims["username"].(string); ok {
		identity.Username = username
	}

	role, ok := claims["role"].(string)
	if !ok || !model.Role(role).Valid() {
		return model.Identity{}, fmt.Errorf("access token carries unknown role %q", role)
	}
	identity.Role = model.Role(role)

	return identity, nil
}
