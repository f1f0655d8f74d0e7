// Package config loads typed configuration structs from environment
// variables using struct tags, with optional .env file support for local
// development. See Load for details and an example.
package config
