// Package configs manages stowaway's configuration.
//
// Configuration is a single explicit Config value. It is assembled in three
// layers, each overriding the previous one:
//
//  1. Built-in defaults (Default)
//  2. The TOML file at $XDG_CONFIG_HOME/stowaway/config.toml
//  3. STOWAWAY_* environment variables and command-line flags (via viper)
//
// # Recognized Fields
//
//	environment_id          = "pman-box"                      # container to drive (required)
//	runtime                 = "docker"                        # docker-compatible CLI
//	staging_dir             = "/home/pman/data/files"         # container-side staging directory
//	manifest_path           = "/home/pman/data/outputs.txt"   # container-side manifest
//	transform_command       = "/home/pman/build/src/pman"     # binary run as: <cmd> <staged file> <secret>
//	clear_command           = []                              # empty: built-in rm/mkdir/truncate
//	encrypted_ext           = "enc"                           # marker extension of encrypted results
//	delete_encrypted_source = true                            # delete input after a confirmed encryption
//	exec_timeout            = ""                              # e.g. "10m"; empty means no limit
//
// The container-side paths are a contract with the image, not discovered.
// The environment itself is provisioned outside stowaway: it is only ever
// started and stopped, never created or removed.
package configs
