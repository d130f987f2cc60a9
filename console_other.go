//go:build !windows

package main

func setConsoleUTF8() {}
