/*
Package cli provides the conduct command line. Each command makes one
request to the conductor (or one packaging run) and prints either a short
summary with follow-up commands or a table. The conductor is resolved from
flags, the environment and the settings file (see package config).
*/
package cli
