package md5coll

import "errors"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var (
	// ErrNotFound means every trial in the budget ran without a collision.
	ErrNotFound = errors.New("md5coll: no collision found within budget")
	// ErrInvalidConfig wraps every configuration and condition table failure.
	ErrInvalidConfig = errors.New("md5coll: invalid config")
)
