/*
Package runner drives a practice session from a line-oriented terminal.

The engine paces the conversation on its own goroutines; the Runner only
watches it, prints new transcript lines and coaching, and turns typed lines
into replies or commands:

	:1 .. :N   answer with suggested reply N
	:hint      list the suggested replies again
	:listen    take the next recognized utterance as a draft
	:send      submit the draft
	:mute      toggle speech
	:retry     start the scenario over
	:quit      leave

Anything else is free text, matched onto the closest suggested reply.
*/
package runner
