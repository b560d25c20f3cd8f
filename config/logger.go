package config

import (
	"github.com/MonkyMars/gecho"
)

func InitializeLogger() *gecho.Logger {
	return NewLogger(true)
}

// NewLogger builds a logger at the configured level. Request logging uses
// one without caller information.
func NewLogger(showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}
