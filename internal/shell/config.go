package shell

import "github.com/xyproto/env/v2"

// Config carries the environment-driven settings of the interactive shell.
type Config struct {
	// Prompt is printed before each input line. GOBASIC_PROMPT.
	Prompt string
	// Quiet suppresses the welcome banner. GOBASIC_QUIET.
	Quiet bool
	// Autoload names a program to LOAD at startup. GOBASIC_AUTOLOAD.
	Autoload string
}

// ConfigFromEnv reads the shell configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		Prompt:   env.Str("GOBASIC_PROMPT", "> "),
		Quiet:    env.Bool("GOBASIC_QUIET"),
		Autoload: env.Str("GOBASIC_AUTOLOAD", ""),
	}
}
