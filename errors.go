package roadmapagent

import "errors"

// ErrNotConfigured means no model credential has been supplied yet.
var ErrNotConfigured = errors.New("roadmap adapter is not configured: missing model credential")

var errEmptyRoadmap = errors.New("generator returned no roadmap")
