package agent

// QueryResult is the outcome of resolving one text query. ResponseText is
// always presentable, whatever happened underneath.
type QueryResult struct {
	ResponseText string `json:"response"`
	Success      bool   `json:"success"`
	QueryType    string `json:"query_type,omitempty"`
	Entity       string `json:"entity,omitempty"`
	Capital      string `json:"capital,omitempty"`
	Error        string `json:"error,omitempty"`
}

// VoiceQueryResult composes a QueryResult with the voice-specific fields.
type VoiceQueryResult struct {
	QueryResult
	TranscribedText string `json:"transcribed_text,omitempty"`
	AudioFilePath   string `json:"audio_file_path,omitempty"`
}
