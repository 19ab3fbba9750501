/*
Package session manages per-session workbenches.

Every editing session gets its own lectern.Workbench, created lazily by a
Factory. Work on a session is serialised by a reference-counted local mutex
and, when a ports.DistributedLocker is configured, by a distributed lock so
that several replicas can serve the same session.
*/
package session
