package ir

import "errors"

// Scene construction errors.
var (
	ErrReference  = errors.New("reference error")
	ErrType       = errors.New("type error")
	ErrStructural = errors.New("structural error")
)
