package domain

import "errors"

// ErrScenarioNotFound is returned when a scenario id is not in the catalog.
var ErrScenarioNotFound = errors.New("scenario not found")

// ErrInvalidScenario is returned when a scenario fails structural validation.
var ErrInvalidScenario = errors.New("invalid scenario")

// ErrNoScenario is returned by operations that need a selected scenario.
var ErrNoScenario = errors.New("no scenario selected")

// ErrNotFinished is returned when a report is requested before the conversation ends.
var ErrNotFinished = errors.New("conversation not finished")

// ErrSpeechUnavailable is returned when the requested speech capability is missing.
var ErrSpeechUnavailable = errors.New("speech capability unavailable")
