package logger

import "go.uber.org/zap"

var global *zap.SugaredLogger

// Init sets the process-wide Zap logger once, from main.
func Init(z *zap.SugaredLogger) { global = z }

// Logger returns the shared sugared logger. It must return a non-nil
// *SugaredLogger even before Init has run, so library code can always
// log without a nil check.
func Logger() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}
