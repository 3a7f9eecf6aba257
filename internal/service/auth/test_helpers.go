package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable clock for
// testing time-dependent behaviour (expiry, not-before).
func NewTestJWTService(secret string, tokenLifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: tokenLifetime * 24,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}
