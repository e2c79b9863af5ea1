package common

// AccessTokenHeaderName is the gRPC metadata key and the HTTP cookie name
// carrying the access token.
const AccessTokenHeaderName = "access_token"

// RefreshTokenCookieName is the HTTP cookie holding the refresh token.
const RefreshTokenCookieName = "refresh_token"
