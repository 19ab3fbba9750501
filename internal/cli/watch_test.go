package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWorkflows(t *testing.T) {
	good := dsl.New("good")
	good.Step("a").Validate()
	good.Step("b").Analyze().After("a")

	cyclic := domain.Workflow{ID: "loop", Steps: []domain.WorkflowStep{
		{ID: "a", Type: domain.StepValidate, Dependencies: []string{"b"}},
		{ID: "b", Type: domain.StepAnalyze, Dependencies: []string{"a"}},
	}}
	badType := domain.Workflow{ID: "odd", Steps: []domain.WorkflowStep{{ID: "x", Type: "paint"}}}

	results, err := CheckWorkflows(context.Background(), memory.NewLoader(good.MustBuild(), cyclic, badType))
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := map[string]CheckResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	assert.NoError(t, byID["good"].Err)
	assert.Equal(t, 2, byID["good"].Steps)

	var cycle *domain.CircularDependencyError
	assert.ErrorAs(t, byID["loop"].Err, &cycle)
	assert.ErrorIs(t, byID["odd"].Err, domain.ErrInvalidWorkflow)

	var buf bytes.Buffer
	assert.Equal(t, 2, writeCheck(&buf, results))
	assert.Contains(t, buf.String(), "✓ good (2 steps)")
	assert.Contains(t, buf.String(), "✗ loop")
}

func TestCheck_RequiresDir(t *testing.T) {
	s, _, _ := testStreams("")
	assert.Error(t, Check(context.Background(), Options{}, s))
}

func TestCheck_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tidy.md", `---
id: tidy
name: Tidy
steps:
  - id: ids
    type: transform
    parameters:
      operation: ensure-ids
---
Assign ids.`)

	s, out, _ := testStreams("")
	require.NoError(t, Check(context.Background(), Options{Dir: dir}, s))
	assert.Contains(t, out.String(), "✓ tidy (1 steps)")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a", "b"}))
}

func TestCheck_LintFindings(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"shuffle.md": `---
id: shuffle
steps:
  - id: ids
    type: transform
    parameters:
      operation: shuffle
---`,
		"loose.md": `---
id: loose
steps:
  - id: look
    type: analyze
    optional: true
    parameters:
      depth: 3
  - id: check
    type: validate
    depends_on: [look]
---`,
	})

	s, out, _ := testStreams("")
	err := Check(context.Background(), Options{Dir: dir}, s)
	require.ErrorIs(t, err, ErrInvalidWorkflows)

	assert.Contains(t, out.String(), "✗ shuffle: lint errors")
	assert.Contains(t, out.String(), "unknown transform operation 'shuffle'")
	assert.Contains(t, out.String(), "✓ loose (2 steps)")
	assert.Contains(t, out.String(), "warning: step 'look': unknown parameters: depth")
	assert.Contains(t, out.String(), "required step runs after optional step 'look'")
}
