package ports

// Reporter receives user-facing run output. The CLI provides the terminal
// implementation; tests substitute in-memory ones.
type Reporter interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
}
