package store

// Logger is the sink accessors report every operation outcome to. Accessors
// never depend on a log call succeeding.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
}

// NopLogger discards everything written to it.
type NopLogger struct{}

func (NopLogger) Info(string)         {}
func (NopLogger) Warn(string)         {}
func (NopLogger) Error(string, error) {}
