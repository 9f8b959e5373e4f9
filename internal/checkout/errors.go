package checkout

import "errors"

// One sentinel per step so callers can surface a distinct message per
// failure kind instead of a single opaque checkout error.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOwnProduct       = errors.New("cannot purchase your own product")
	ErrEmailNotVerified = errors.New("buyer email is not verified")
	ErrSellerLookup     = errors.New("seller lookup failed")
	ErrChargeFailed     = errors.New("charge request failed")
	ErrChargeDeclined   = errors.New("charge was not successful")
	ErrOrderCreate      = errors.New("order creation failed")
)
