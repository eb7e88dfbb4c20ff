// Package config reads the pueue daemon's configuration file to find out how
// to reach the daemon and where its shared secret lives.
//
// # Configuration Discovery
//
// Load checks, in order:
//
//  1. The path passed on the command line (--config)
//  2. PUEUE_CONFIG_PATH
//  3. $XDG_CONFIG_HOME/pueue/pueue.yml
//  4. ~/.config/pueue/pueue.yml
//  5. /etc/pueue/pueue.yml
//
// Unlike most settings, a missing file is an error: the daemon writes its
// configuration on first start, so no file means no daemon to talk to.
//
// # Layering
//
// Values are resolved with viper. Built-in defaults are overridden by the
// file's shared section, which is overridden by the selected profile
// (profiles.<name>), which is overridden by PUEUE_SHARED_<KEY> environment
// variables:
//
//	shared:
//	  use_unix_socket: false
//	  host: 127.0.0.1
//	  port: "6924"
//	profiles:
//	  remote:
//	    shared:
//	      host: build-01
//
// Paths starting with ~ are expanded after decoding.
//
// # Authentication
//
// The daemon authenticates clients with a shared secret stored next to its
// data. Shared.SecretPath locates it and ReadSharedSecret loads it.
package config
