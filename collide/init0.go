//go:build windows

package main

import (
	. "golang.org/x/sys/windows"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func init() {
	pNoCodesDefault = !virtualTerminal(os.Stdout) || !virtualTerminal(os.Stderr)
	pNoCodes = pNoCodesDefault
}

// virtualTerminal turns on escape-code processing for f's console and reports whether it is on.
// Redirected output has no console mode; the progress bar and colours then stay off.
func virtualTerminal(f *os.File) bool {
	var mode uint32
	h := Handle(f.Fd())
	if GetConsoleMode(h, &mode) != nil {
		return false
	}
	return mode&ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 ||
		SetConsoleMode(h, mode|ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
