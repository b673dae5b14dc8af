// Package config provides configuration types and loading for the wikimcp
// server and CLI.
//
// Values are resolved from several sources. From highest to lowest
// precedence:
//
//  1. Command-line flags
//  2. Environment variables (WIKIMCP_*)
//  3. Local config file (.wikimcp.yaml in the current directory)
//  4. Global config file ($XDG_CONFIG_HOME/wikimcp/config.yaml)
//  5. Built-in defaults
//
// Config.Sources records which layer supplied each value so `wikimcp config`
// can explain the effective configuration.
package config
