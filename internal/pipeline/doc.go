// Package pipeline runs the stages of a csvinspect analysis in sequence.
//
// Each stage (load, profile, drop missing rows, save, visualize, record
// history) is a Step that receives the shared model.Analysis and fills in
// its part. A Pipeline executes the steps in order, checks the context
// between steps and stops at the first failure.
//
// Build assembles the steps a config.Config asks for.
package pipeline
