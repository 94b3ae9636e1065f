package analyzer

// Reason identifies why a pipeline run failed.
type Reason string

const (
	ReasonTooLarge        Reason = "too_large"
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonNoTranscript    Reason = "no_transcript"
	ReasonCorruptArchive  Reason = "corrupt_archive"
	ReasonUnreadable      Reason = "unreadable"
	ReasonNoMessages      Reason = "no_messages"
	ReasonMissingAPIKey   Reason = "missing_api_key"
	ReasonModelFailed     Reason = "model_failed"
)

// ReasonInfo is the user-facing metadata for a failure reason.
type ReasonInfo struct {
	Reason     Reason
	Diagnostic string
	Retryable  bool
}

// ReasonRegistry maps every failure reason to the message shown to the user.
var ReasonRegistry = map[Reason]ReasonInfo{
	ReasonTooLarge: {
		Reason:     ReasonTooLarge,
		Diagnostic: "The file is too large. Export the chat without media or upload a smaller file.",
	},
	ReasonUnsupportedType: {
		Reason:     ReasonUnsupportedType,
		Diagnostic: "Upload the exported chat as a .txt file or a .zip archive.",
	},
	ReasonNoTranscript: {
		Reason:     ReasonNoTranscript,
		Diagnostic: "The ZIP archive does not contain a valid .txt chat transcript.",
	},
	ReasonCorruptArchive: {
		Reason:     ReasonCorruptArchive,
		Diagnostic: "The ZIP archive is damaged and could not be opened.",
	},
	ReasonUnreadable: {
		Reason:     ReasonUnreadable,
		Diagnostic: "The chat file could not be read.",
	},
	ReasonNoMessages: {
		Reason:     ReasonNoMessages,
		Diagnostic: "No messages could be extracted. Check that the file is an exported WhatsApp chat.",
	},
	ReasonMissingAPIKey: {
		Reason:     ReasonMissingAPIKey,
		Diagnostic: "An API key is required to analyse the chat.",
	},
	ReasonModelFailed: {
		Reason:     ReasonModelFailed,
		Diagnostic: "The AI request failed. Please try again.",
		Retryable:  true,
	},
}

// Diagnostic returns the user-facing message for r.
func Diagnostic(r Reason) string {
	if info, ok := ReasonRegistry[r]; ok {
		return info.Diagnostic
	}
	return "Something went wrong while processing the chat."
}
