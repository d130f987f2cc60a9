//go:build windows

package main

import "golang.org/x/sys/windows"

const utf8CodePage = 65001

// setConsoleUTF8 switches an attached console to UTF-8 so -status output
// renders user names and paths correctly.
func setConsoleUTF8() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	for _, name := range []string{"SetConsoleOutputCP", "SetConsoleCP"} {
		proc := kernel32.NewProc(name)
		if proc.Find() != nil {
			continue
		}
		proc.Call(utf8CodePage)
	}
}
