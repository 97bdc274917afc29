//go:build windows

package config

// mapEnvKey translates the POSIX names used in shared config files.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "USER":
		return "USERNAME"
	}
	return key
}
