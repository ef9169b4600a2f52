package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AuthRequiredMessage is returned by the store for any call made without a
// valid session. Clients detect session expiry by this phrase when no
// structured code is available.
const AuthRequiredMessage = "Authentication required. Please login first."

// AuthRequiredPhrase is the substring clients look for in store messages.
const AuthRequiredPhrase = "Authentication required"

const (
	MaxNameLength      = 200
	MinRating          = 1
	MaxRating          = 10
	MaxBatchDeleteSize = 100
	MaxListSize        = 1000
)
