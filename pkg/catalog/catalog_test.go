package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/aretw0/rehearse/internal/validator"
	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	scenarios := catalog.Builtin()
	require.Len(t, scenarios, 4)

	ids := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"behavioral", "technical", "culture", "situational"}, ids)

	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			require.NoError(t, catalog.Validate(&s))
			assert.Empty(t, catalog.Lint(&s), "built-in content should lint clean")
			assert.Equal(t, 6, s.TotalTurns)
			assert.Equal(t, 3, s.MaxOptionScore())
			assert.Len(t, s.DynamicFeedback, 3)
			assert.NotEmpty(t, s.Feedback.Tips)
			assert.NotEmpty(t, s.Persona.Voice.PreferredVoices)
		})
	}
}

func TestBuiltin_FirstOptionWalkTerminates(t *testing.T) {
	for _, s := range catalog.Builtin() {
		walk := validator.WalkOption(&s, domain.StartNodeID, s.TotalTurns+catalog.WalkSlack, validator.FirstOption)
		assert.True(t, walk.Terminated, "scenario %s", s.ID)
	}
}

func TestBuiltin_OptionRubric(t *testing.T) {
	for _, s := range catalog.Builtin() {
		for _, node := range s.Nodes() {
			for _, opt := range node.Options {
				assert.Contains(t, []int{1, 2, 3}, opt.Score, "%s/%s", s.ID, node.ID)
				switch opt.Score {
				case 3:
					assert.Equal(t, domain.QualityExcellent, opt.Quality)
				case 2:
					assert.Equal(t, domain.QualityAdequate, opt.Quality)
				case 1:
					assert.Equal(t, domain.QualityPoor, opt.Quality)
				}
			}
		}
	}
}

func TestBuiltin_Persona(t *testing.T) {
	c := catalog.Default()
	s, err := c.Get("behavioral")
	require.NoError(t, err)

	assert.Equal(t, "Alex Chen", s.Persona.Name)
	assert.Equal(t, "Senior Software Engineer Candidate", s.Persona.Role)
	assert.InDelta(t, 0.88, s.Persona.Voice.Pitch, 1e-9)
	assert.InDelta(t, 0.92, s.Persona.Voice.Rate, 1e-9)
	assert.Equal(t, "Daniel", s.Persona.Voice.PreferredVoices[0])

	start, ok := s.Node(domain.StartNodeID)
	require.True(t, ok)
	require.Len(t, start.Options, 3)
	assert.Equal(t, "q1_good", *start.Options[0].NextID)
	assert.Equal(t, domain.CategoryRapport, start.Options[1].Category)

	band := s.DynamicFeedback[0]
	assert.Equal(t, 8, band.Min)
	assert.Equal(t, 10, band.Max)
}

func TestCatalog_Get(t *testing.T) {
	c := catalog.Default()

	_, err := c.Get("nope")
	assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
	assert.Equal(t, 4, c.Len())
}

const minimalYAML = `
id: mini
title: Mini
description: Tiny scenario
persona:
  name: Pat
  role: Candidate
total_turns: 1
dialog_tree:
  - id: start
    message: Hello.
    options:
      - {text: Bye, score: 3, next: null, quality: excellent, coaching_tip: ok, category: rapport}
dynamic_feedback:
  - range: [0, 10]
    strengths: [s]
    improvements: [i]
    tips: [t]
feedback:
  strengths: []
  improvements: []
  tips: []
`

const minimalJSON = `{
  "id": "mini-json",
  "title": "Mini JSON",
  "description": "Tiny scenario",
  "persona": {"name": "Pat", "role": "Candidate"},
  "total_turns": 1,
  "dialog_tree": [
    {"id": "start", "message": "Hello.", "options": [
      {"text": "Next", "score": 2, "next": "end", "quality": "adequate", "coaching_tip": "", "category": "structure"}
    ]},
    {"id": "end", "message": "Thanks."}
  ],
  "feedback": {"strengths": [], "improvements": [], "tips": []}
}`

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"content/mini.yaml":  {Data: []byte(minimalYAML)},
		"content/mini.json":  {Data: []byte(minimalJSON)},
		"content/README.md":  {Data: []byte("# ignored")},
		"content/nested/x.y": {Data: []byte("ignored")},
	}

	scenarios, err := catalog.Load(fsys, "content")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	// Lexical order: mini.json before mini.yaml
	assert.Equal(t, "mini-json", scenarios[0].ID)
	assert.Equal(t, "mini", scenarios[1].ID)

	mini := scenarios[1]
	assert.Equal(t, domain.DefaultVoice, mini.Persona.Voice)
	assert.Nil(t, mini.DialogTree["start"].Options[0].NextID)

	jsonScenario := scenarios[0]
	assert.True(t, jsonScenario.DialogTree["end"].Terminal())
	assert.Equal(t, []string{"start", "end"}, jsonScenario.NodeOrder)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		reasons []string
	}{
		{
			name: "missing start and dangling next",
			doc: `
id: broken
persona: {name: Pat, role: Candidate}
dialog_tree:
  - id: intro
    message: Hi
    options:
      - {text: a, score: 3, next: nowhere, quality: excellent, coaching_tip: "", category: rapport}
feedback: {strengths: [], improvements: [], tips: []}
`,
			reasons: []string{`missing "start" node`, `option 0 points to missing node "nowhere"`},
		},
		{
			name: "duplicate ids and bad labels",
			doc: `
id: dup
persona: {name: Pat, role: Candidate}
dialog_tree:
  - id: start
    message: Hi
    options:
      - {text: a, score: 3, next: null, quality: stellar, coaching_tip: "", category: charm}
  - id: start
    message: Again
feedback: {strengths: [], improvements: [], tips: []}
`,
			reasons: []string{"duplicate node id", `unknown quality "stellar"`, `unknown category "charm"`},
		},
		{
			name: "malformed band",
			doc: `
id: band
persona: {name: Pat, role: Candidate}
dialog_tree:
  - id: start
    message: Hi
dynamic_feedback:
  - range: [9]
feedback: {strengths: [], improvements: [], tips: []}
`,
			reasons: []string{"range must have two bounds"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Decode(tt.name+".yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidScenario)

			issues := catalog.Issues(err)
			require.NotEmpty(t, issues)
			for _, reason := range tt.reasons {
				assert.Contains(t, err.Error(), reason)
			}
		})
	}
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := catalog.Decode("x.yaml", []byte("id: x\nsurprise: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surprise")
}

func TestLint(t *testing.T) {
	loop := "start"
	s := &domain.Scenario{
		ID:         "lint",
		TotalTurns: 2,
		Persona:    domain.Persona{Name: "Pat"},
		DialogTree: map[string]domain.DialogNode{
			"start": {ID: "start", Options: []domain.DialogOption{
				{Text: "again", Score: 3, NextID: &loop, Quality: domain.QualityPoor, Category: domain.CategoryRapport},
				{Text: "odd", Score: 5, Quality: domain.QualityExcellent, Category: domain.CategoryRapport},
			}},
			"island": {ID: "island"},
		},
		NodeOrder: []string{"start", "island"},
	}
	require.NoError(t, catalog.Validate(s))

	var messages []string
	for _, f := range catalog.Lint(s) {
		messages = append(messages, f.String())
	}
	assert.Contains(t, messages, `start: option 0 score 3 labelled "poor", expected "excellent"`)
	assert.Contains(t, messages, "start: option 1 score 5 outside 1..3")
	assert.Contains(t, messages, "island: unreachable from start")
	assert.Contains(t, messages, "first-option walk does not end within 4 replies")
}

func TestNew_RejectsInvalid(t *testing.T) {
	_, err := catalog.New(domain.Scenario{ID: "bad"})
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
	assert.NotEmpty(t, catalog.Issues(err))
}
