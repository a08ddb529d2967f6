// Package logger is a standardized event logging framework for interpreter
// sessions.
//
// Each event is recorded as a LogEntry holding exactly one event field, one
// JSON object per line.
package logger
