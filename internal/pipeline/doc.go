// Package pipeline runs the requested analyses of one export in sequence.
//
// Each analysis (post types, custom fields, taxonomies, posts) is a Step
// that reads from an analyzer and fills its view of the shared
// AnalysisReport. The CLI assembles the steps from the report flags the
// user selected.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It lets an interrupt stop the run between steps
//
// Steps always run one after another; the analyzer is not safe to share
// across goroutines and the analyses are cheap once the export is loaded.
package pipeline
