// Package config loads c4x configuration files.
//
// A configuration file is TOML:
//
//	theme  = "modern"
//	format = "svg,json"
//
//	[layout]
//	node_sep = 120
//	rank_sep = 140
//
//	[layout.boundary_padding]
//	top = 70
//	bottom = 40
//	left = 40
//	right = 40
//
//	[layout.sizes.container]
//	width  = 280
//	height = 150
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":9000"
//	rate_limit = 5
//
// Every key is optional. [Load] starts from [Default] and rejects keys it
// does not know, so a typo fails loudly instead of being ignored. Command
// line flags override file values; that merge happens in the CLI.
package config
