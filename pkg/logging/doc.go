// Package logging provides structured logging configuration for wikimcp.
//
// This package wraps log/slog so every component logs the same way. It
// supports configurable levels, text or JSON output, and an optional log
// file that receives a copy of every record.
//
// # Usage
//
//	logger, closer, err := logging.Open(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	    File:   "/var/log/wikimcp.log",
//	})
//	defer closer.Close()
//
//	logger.Info("server started", "port", 5070)
//
// # Stdio mode
//
// When wikimcp speaks MCP over stdin/stdout, stdout carries the protocol.
// Loggers must then write to stderr (the default) or a file only.
//
// # Integration
//
// Components accept a *slog.Logger through an option or setter.
// If no logger is provided, use logging.Nop().
package logging
