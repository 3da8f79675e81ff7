// Package config loads dreamlock settings.
//
// Configuration is assembled from the following sources, earlier ones
// winning for every non-zero field:
//  1. DREAMLOCK_* environment variables
//  2. JSON file named by DREAMLOCK_CONFIG
//  3. Built-in defaults
package config
