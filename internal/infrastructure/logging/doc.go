// Package logging provides structured logging built on zap, with JSON
// output in production and colored console output in development.
package logging
