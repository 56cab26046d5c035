/*
Package domain contains the core models of the rehearse interview simulator.

It defines the scenario content (persona, dialog tree, rubric), the runtime
conversation snapshot, and the end-of-session report. This package is kept
pure and free of I/O so the engine, adapters, and presentation layers can
share it.

# Key Entities

  - Scenario: A practice script with a persona, a dialog tree keyed by node id, and feedback bands.
  - DialogNode: A scripted candidate line plus the interviewer replies available after it.
  - DialogOption: One reply, carrying its score, quality, coaching tip, category, and next node.
  - Conversation: The snapshot of a running session (phase, tallies, transcript).
  - Report: The compiled feedback once a session finishes.
*/
package domain
