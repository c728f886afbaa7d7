package server

import "errors"

var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrShutdown             = errors.New("server shutdown error")
	ErrEmptyCertPath        = errors.New("certificate or key file path cannot be empty")
)
