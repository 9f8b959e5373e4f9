package repository

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMarketNotFound  = errors.New("market not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)
