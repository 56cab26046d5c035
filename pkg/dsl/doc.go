/*
Package dsl provides a Go DSL for programmatically constructing interview scenarios.

It is an alternative to YAML or JSON scenario files, useful for generated
scenarios, unit tests, and IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/rehearse/pkg/domain"
		"github.com/aretw0/rehearse/pkg/dsl"
	)

	func main() {
		b := dsl.New("screen").
			Title("Phone Screen").
			Persona("Sam Rivera", "Backend Engineer Candidate").
			TotalTurns(1)

		b.Node("start").
			Says("Hi, I'm Sam. Thanks for making the time.").
			Reply("Tell me about a system you designed end to end.", 3,
				domain.QualityExcellent, domain.CategoryQuestioning, "wrap").
			Tip("Open, specific and behavioral.")

		b.Node("wrap").
			Says("That's the gist of it. Anything else?").
			Reply("That's all, thank you!", 2, domain.QualityAdequate, domain.CategoryStructure, "")

		scenario, err := b.Build()
		// ... pass scenario to Engine.StartScenario or catalog.New
	}
*/
package dsl
