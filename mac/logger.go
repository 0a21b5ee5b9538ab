package mac

// Logger receives the observability events emitted while parsing headers and
// validating timestamps. Events never change the result of an operation.
//
// *zap.SugaredLogger satisfies Logger.
type Logger interface {
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}

	return l
}
