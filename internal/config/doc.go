// Package config provides application configuration loaded from environment
// variables (prefix GHG) and an optional YAML file, plus a centralized path
// resolver so every tool in the module agrees on where data, reports, and
// logs live.
package config
