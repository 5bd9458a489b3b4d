package logger

import "log"

// A LoggerOptFn is a functional option configuring a SyncLogger when constructing a new one.
type LoggerOptFn func(*SyncLogger)

// WithEnv sets the environment SyncLogger is operating in.
func WithEnv(env string) func(*SyncLogger) {
	return func(l *SyncLogger) {
		l.env = env
	}
}

// WithLevel sets the log level SyncLogger uses.
func WithLevel(level LogLevel) func(*SyncLogger) {
	return func(l *SyncLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger SyncLogger uses.
func WithLogger(log *log.Logger) func(*SyncLogger) {
	return func(l *SyncLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*SyncLogger) {
	return func(l *SyncLogger) {
		l.skip = skip
	}
}
