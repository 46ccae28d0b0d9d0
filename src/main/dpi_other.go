//go:build !windows

package main

// DPI awareness is a Windows process property; elsewhere the windowing
// toolkit handles scaling.
func enableDPIAwareness() {}
