package collision

import "fmt"

// ErrSchedulerIterationCap is returned by Step when a single tick needs
// more sub-tick iterations than MaxIterations allows — almost always a
// sign that bodies are interpenetrating faster than the solver can push
// them apart (e.g. one was spawned inside another), not a correctly
// resolving cascade of collisions.
var ErrSchedulerIterationCap = fmt.Errorf("collision: exceeded scheduler iteration cap")
