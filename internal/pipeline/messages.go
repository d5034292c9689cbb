package pipeline

import "fmt"

const (
	msgProcessing   = "🎧 Processing your audio message..."
	msgTranscribing = "🔍 Transcribing your message..."

	msgDownloadFailed   = "❌ Sorry, I couldn't process your audio message. Please try again."
	msgConvertFailed    = "❌ Sorry, I couldn't convert your audio message. Please try again."
	msgTranscribeFailed = "❌ Sorry, I couldn't transcribe your message. Please try again."
	msgAnalyzeFailed    = "❌ Sorry, I couldn't analyze your message. Please try again."
	msgRespondFailed    = "❌ Sorry, I couldn't generate a response. Please try again."
	msgGenericFailure   = "❌ Sorry, something went wrong. Please try again later."
)

func msgAnalyzing(language string) string {
	return fmt.Sprintf("🔍 Analyzing your message in %s...", language)
}

// composeShort is the terminal message for transcripts under the word limit:
// the transcription only, with a note about why there is no summary.
func composeShort(language, transcription string, wordLimit int) string {
	return fmt.Sprintf(
		"📝 <b>Transcription (%s)</b>:\n%s\n\nℹ️ This message is under %d words, so I'm skipping the summary and response.",
		language, transcription, wordLimit,
	)
}

// composeFull is the terminal message for long transcripts: transcription,
// summary, and response, each under its own label, in that order.
func composeFull(language, transcription, summary, response string) string {
	return fmt.Sprintf(
		"📝 <b>Transcription (%s)</b>:\n%s\n\n📋 <b>Summary</b>:\n%s\n\n💬 <b>Response</b>:\n%s",
		language, transcription, summary, response,
	)
}
