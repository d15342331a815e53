// Package driver runs the generation pipeline over a set of type
// definitions: classify, resolve attributes, infer bounds, render both
// artifacts.
//
// Within one type the pipeline is fail-fast: the first diagnostic stops
// that type and nothing partial is emitted for it. Across types failures
// are isolated; every healthy type still generates, and the collected
// diagnostics come back together.
package driver
