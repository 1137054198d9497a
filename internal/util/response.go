package util

// Envelope is the JSON body shape for every response: a status flag, a
// human-readable message and an optional payload.
type Envelope map[string]any

func Success(message string, data any) Envelope {
	env := Envelope{"status": true, "message": message}
	if data != nil {
		env["data"] = data
	}
	return env
}

func Error(message string) Envelope {
	return Envelope{"status": false, "message": message}
}

// ErrorWithDetail attaches the underlying error text; callers gate this on environment.
func ErrorWithDetail(message string, err error) Envelope {
	env := Error(message)
	if err != nil {
		env["error"] = err.Error()
	}
	return env
}
