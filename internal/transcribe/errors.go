package transcribe

import (
	"fmt"
	"strings"
)

// FailureKind classifies why a transcription submission failed.
type FailureKind string

const (
	FailureInvalidAudio    FailureKind = "invalid_audio"
	FailureStorageNotFound FailureKind = "storage_not_found"
	FailureAccessDenied    FailureKind = "access_denied"
	FailureTimeout         FailureKind = "timeout"
	FailureOther           FailureKind = "other"
)

// Structured failure codes reported by the transcription service. Substring
// matching on the reason text is the fallback when no code is present.
const (
	codeStorageNotFound = "StorageNotFound"
	codeAccessDenied    = "AccessDenied"
)

// ClassifyFailure maps a service-reported failure to a FailureKind. The
// structured code takes precedence; the reason text is only inspected when
// the code is absent or unknown.
func ClassifyFailure(code, reason string) FailureKind {
	switch code {
	case codeStorageNotFound:
		return FailureStorageNotFound
	case codeAccessDenied:
		return FailureAccessDenied
	}

	switch {
	case strings.Contains(reason, codeStorageNotFound), strings.Contains(reason, "NoSuchKey"):
		return FailureStorageNotFound
	case strings.Contains(reason, codeAccessDenied), strings.Contains(reason, "Forbidden"):
		return FailureAccessDenied
	default:
		return FailureOther
	}
}

// Message renders the user-facing failure text for a kind. The reason is
// only surfaced verbatim for unclassified failures.
func (k FailureKind) Message(reason string) string {
	switch k {
	case FailureInvalidAudio:
		return "Audio data too small or invalid"
	case FailureStorageNotFound:
		return "Transcription failed: the staged audio could not be found in storage"
	case FailureAccessDenied:
		return "Transcription failed: access denied. Check the transcription service credentials and permissions"
	case FailureTimeout:
		return "Transcription timed out waiting for the job to complete"
	default:
		if reason == "" {
			return "Transcription failed"
		}
		return fmt.Sprintf("Transcription failed: %s", reason)
	}
}
