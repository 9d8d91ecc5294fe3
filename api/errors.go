package api

import "errors"

// ErrTransactionReverted is returned when a mined transaction has status 0
var ErrTransactionReverted = errors.New("transaction reverted")
