package ports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ReplyRequest carries everything a provider needs to answer in character.
type ReplyRequest struct {
	PersonaName         string
	PersonaRole         string
	ScenarioTitle       string
	ScenarioDescription string
	// Utterance is the interviewer's literal reply text.
	Utterance string
}

// Key is a stable digest of the request, suitable as a cache key.
func (r ReplyRequest) Key() string {
	h := sha256.New()
	for _, part := range []string{r.PersonaName, r.PersonaRole, r.ScenarioTitle, r.ScenarioDescription, strings.TrimSpace(r.Utterance)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ReplyProvider generates a dynamic candidate line.
// Any returned error makes the engine fall back to the scripted line.
type ReplyProvider interface {
	Reply(ctx context.Context, req ReplyRequest) (string, error)
}

// ReplyCache stores provider replies.
type ReplyCache interface {
	// Get returns the cached reply and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a reply, replacing any previous value.
	Set(ctx context.Context, key, reply string) error
}
