package transcribe

// Result represents the outcome of one transcription submission
type Result struct {
	Success       bool
	Transcription string      // present only on success
	Error         string      // present only on failure
	Kind          FailureKind // classification of the failure, empty on success
}

// failure builds a failed result from a classified kind and reported reason.
func failure(kind FailureKind, reason string) Result {
	return Result{
		Success: false,
		Error:   kind.Message(reason),
		Kind:    kind,
	}
}
