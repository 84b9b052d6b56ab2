package entity

import "errors"

var (
	// ErrDuplicateWalletAddress is returned by repositories when (userId, walletAddress) already exists.
	ErrDuplicateWalletAddress = errors.New("wallet address already exists for user")
	// ErrNotFound is returned when a row does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrNoBlockchainClient means a currency has no registered balance client. This is a deployment error.
	ErrNoBlockchainClient = errors.New("no blockchain client registered for currency")
	// ErrUnauthorized is returned when a bearer token cannot be resolved to a user.
	ErrUnauthorized = errors.New("unauthorized")
)
