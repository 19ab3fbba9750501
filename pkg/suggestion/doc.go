// Package suggestion scores slide content and proposes ranked, capped,
// non-mutating recommendations.
//
// Suggestions come from rules evaluated against a Context. Each enabled rule
// whose condition holds fills in a seed suggestion that already carries the
// rule's ID, category and priority. Results below Config.MinConfidence are
// dropped, the rest are ranked by (priority desc, confidence desc) and
// truncated to Config.MaxSuggestions. A rule that fails is reported as a
// warning and never aborts the pass.
//
// AnalyzeContent computes independent readability, engagement, visual balance
// and accessibility scores for a single slide.
package suggestion
