package utils

import "go.uber.org/zap"

// NewLogger builds the process logger. Debug mode uses zap's development
// config (console encoding, debug level) for running against a local tree;
// otherwise the production config (JSON, info level) so server logs stay
// machine-parseable.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
