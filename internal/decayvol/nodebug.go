//go:build !debug
// +build !debug

package decayvol

func DebugLog(format string, args ...interface{})     {}
func DebugLogOnce(format string, args ...interface{}) {}
