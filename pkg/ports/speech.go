package ports

import (
	"context"

	"github.com/aretw0/rehearse/pkg/domain"
)

// Utterance is one line handed to speech synthesis.
type Utterance struct {
	Text    string
	Speaker string
	Voice   domain.VoiceProfile
	// Muted utterances still run to completion, silently.
	Muted bool
}

// SpeechCallbacks report the progress of an utterance.
// They may be invoked from any goroutine, including synchronously from Speak.
type SpeechCallbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// SpeechOutput speaks one utterance at a time.
type SpeechOutput interface {
	// Available reports whether synthesis can be used at all.
	Available() bool
	// Speak starts an utterance, cancelling any in progress. It must not block until playback ends.
	Speak(ctx context.Context, u Utterance, cb SpeechCallbacks) error
	// Cancel stops the current utterance. Its OnEnd/OnError may still fire.
	Cancel()
}

// SpeechSegments receive recognition results.
type SpeechSegments struct {
	OnInterim func(text string)
	OnFinal   func(text string)
	OnEnd     func()
	OnError   func(error)
}

// SpeechInput runs at most one recognition session at a time.
//
// Segment callbacks are delivered in order on a goroutine owned by the
// implementation, never synchronously from Start, Stop or Abort. Stop and Abort
// must not block.
type SpeechInput interface {
	Available() bool
	Start(ctx context.Context, seg SpeechSegments) error
	// Stop ends recognition, delivering pending final segments.
	Stop()
	// Abort ends recognition, discarding pending results.
	Abort()
}
