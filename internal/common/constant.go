package common

// AuthHeaderName is the HTTP header used to carry the access token on
// authenticated requests.
const AuthHeaderName = "Authorization"

// BearerPrefix prefixes the token value inside AuthHeaderName.
const BearerPrefix = "Bearer "
