/*
Package rehearse is a mock interview practice engine for hiring managers.

A scenario is a scripted dialog tree. The engine plays the candidate persona,
offers suggested replies at every turn, scores the reply the interviewer picks
(or types, matched onto the closest suggestion), and compiles a feedback report
when the conversation ends. With an OpenAI key configured, candidate lines are
generated live from the interviewer's words while the script still drives
navigation and scoring.

# Usage

Build an App from configuration and drive its engine from any front end:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/rehearse"
		"github.com/aretw0/rehearse/internal/config"
	)

	func main() {
		cfg, err := config.Load("rehearse.yaml")
		if err != nil {
			log.Fatal(err)
		}
		app, err := rehearse.New(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer app.Close()

		if err := app.Engine.Start(context.Background(), "behavioral"); err != nil {
			log.Fatal(err)
		}
		// Poll app.Engine.View() and answer with SelectOption or SubmitText.
	}

The rehearse command wraps the same engine as a terminal session
(rehearse practice), an HTTP API with Server-Sent Events (rehearse serve) and an
MCP tool server (rehearse mcp).
*/
package rehearse
