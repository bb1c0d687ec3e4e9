//go:build !linux

package sockopt

// applyPlatformOptions is a no-op on platforms without a dedicated
// tuning_<goos>.go — every option Apply in tuning.go already set still
// applies; only the Linux-only TCP_QUICKACK optimization is skipped.
func applyPlatformOptions(fd int, cfg *Config) {}
