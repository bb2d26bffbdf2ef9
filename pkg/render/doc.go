// Package render groups the non-interactive views of a build.
//
// The terminal editor and the HTTP API show live state; the packages under
// render turn a saved build into files. [github.com/matzehuels/brickyard/pkg/render/plan]
// draws a top-down floor plan with Graphviz.
package render
