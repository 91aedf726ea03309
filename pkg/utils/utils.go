package utils

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)
