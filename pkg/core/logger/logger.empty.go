//go:build logless

package logger

// emptyEvent discards every field; its method set mirrors only the
// zerolog.Event calls cmd/compare actually makes (Err, Str, Msg).
type emptyEvent struct{}

func (e emptyEvent) Err(error) emptyEvent          { return e }
func (e emptyEvent) Str(string, string) emptyEvent { return e }
func (e emptyEvent) Msg(string)                    {}

type emptyLogger struct{}

func (l emptyLogger) Error() emptyEvent { return emptyEvent{} }

var Log = emptyLogger{}
