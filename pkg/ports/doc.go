/*
Package ports defines the driven ports (interfaces) of the rehearse engine.

These interfaces decouple the dialog engine from speech hardware, the external
text-generation service, and caching backends, so the same engine runs in a
terminal, behind HTTP, or inside tests with fakes.

# Key Interfaces

  - ReplyProvider: Produces an in-character candidate reply for free-text input.
  - ReplyCache: Stores provider replies keyed by request (Redis or memory).
  - SpeechOutput: Speaks one utterance at a time and reports when it ends.
  - SpeechInput: Streams recognized speech segments while listening.
*/
package ports
