package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for Espalier.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Blue/Violet/Rose)
	s1 := termenv.String("  ______                     _  _").Foreground(p.Color("#60a5fa"))
	s2 := termenv.String(" |  ____|                   | |(_)").Foreground(p.Color("#818cf8"))
	s3 := termenv.String(" | |__    ___  _ __    __ _ | | _   ___  _ __").Foreground(p.Color("#a78bfa"))
	s4 := termenv.String(" |  __|  / __|| '_ \\  / _` || || | / _ \\| '__|").Foreground(p.Color("#c084fc"))
	s5 := termenv.String(" | |____ \\__ \\| |_) || (_| || || ||  __/| |").Foreground(p.Color("#e879f9"))
	s6 := termenv.String(" |______||___/| .__/  \\__,_||_||_| \\___||_|").Foreground(p.Color("#f472b6"))
	s7 := termenv.String("              | |").Foreground(p.Color("#fb7185"))
	s8 := termenv.String("              |_|").Foreground(p.Color("#fda4af"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(s7)
	fmt.Println(s8)
	if version != "" {
		fmt.Println(termenv.String("  v" + version).Faint())
	}
	fmt.Println()
}

// Verdict renders an accept/reject outcome for terminal output.
func Verdict(accepted bool) string {
	p := termenv.ColorProfile()
	if accepted {
		return termenv.String("accepted").Foreground(p.Color("#4ade80")).Bold().String()
	}
	return termenv.String("rejected").Foreground(p.Color("#f87171")).Bold().String()
}
