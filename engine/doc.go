// Package engine implements the orchestration loop that turns a research
// query into an answered turn: a bounded think/act cycle that consults the
// decision collaborator, dispatches tool calls with timeouts and retry,
// folds observations back into the context, and commits the finished turn
// to conversation memory and the metrics collector as one unit.
//
// Failure handling is graded. Transient tool errors are retried once and
// then become observations; permanent tool errors become observations
// immediately. Unparseable decisions are retried once with a narrowed
// context. Only an empty tool registry or a decision collaborator that is
// unreachable before anything was gathered surface as OrchestrationError;
// every other path degrades to a best-effort answer.
package engine
