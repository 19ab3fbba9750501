/*
Package ports defines the driven ports (interfaces) of the Lectern engines.

These interfaces decouple the rule and workflow engines from external
collaborators, so the same core runs against in-memory fakes in tests and
real backends in production.

# Key Interfaces

  - ContentGenerator: the external text/slide generator called by generate steps.
  - WorkflowLoader: supplies workflow definitions (e.g. from Loam or memory).
  - ExecutionStore: optional archive of finished workflow executions.
  - DistributedLocker: distributed locking for concurrent session access.
*/
package ports
