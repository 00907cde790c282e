// Package config loads the meetmind client configuration.
//
// Configuration lives in a YAML file (by default
// $XDG_CONFIG_HOME/meetmind/config.yaml) with environment variable
// expansion, so secrets can be referenced as ${MEETMIND_TOKEN}-style
// placeholders rather than written to disk:
//
//	server:
//	  base_url: https://meetmind.example.com
//	  request_timeout: 30s
//	  upload_timeout: 5m
//	logging:
//	  level: debug
//
// The backend specifies no timeout of its own; the request and upload
// timeouts here bound every call the client makes.
package config
