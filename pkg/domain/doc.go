/*
Package domain contains the core domain models of the Lectern editing core.

It defines slide content (elements, slides, presentations), the outputs of the rule
engines (suggestions, formatting changes, content analyses), and the workflow model
(workflows, steps, executions and their results). This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - ContentElement: An atomic positioned unit of slide content on a 12x12 grid.
  - Slide / Presentation: Ordered containers of elements.
  - Suggestion: A recommended, not-yet-applied change with a confidence score.
  - FormattingChange: One audited property change made by a formatting rule.
  - Workflow / WorkflowStep: A reusable, dependency-ordered pipeline definition.
  - WorkflowExecution: The runtime record of one workflow invocation.
*/
package domain
