package state

import "errors"

var ErrUserNotRegistered = errors.New("user is not registered")
