// Package config provides the settings of a csvinspect run.
//
// A Config starts from NewConfig defaults and is then overlaid, in order, by
// the YAML configuration file (.csvinspect), by CSVINSPECT_* environment
// variables (optionally read from a .env file) and finally by command line
// flags the user set explicitly. Validate reports the first invalid setting
// as one of the sentinel errors in errors.go.
package config
