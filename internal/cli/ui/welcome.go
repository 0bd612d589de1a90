package ui

import (
	"fmt"
	"io"
)

// PrintWelcome выводит приветствие
func PrintWelcome(w io.Writer) {
	fmt.Fprintln(w, ColorBold+IconRobot+" contextAgent v0.1.0"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Сборка и защита контекста для LLM в пределах бюджета символов"+ColorReset)
	fmt.Fprintln(w)
	fmt.Fprintln(w, ColorCyan+IconBulb+" Совет:"+ColorReset+" начните с "+ColorYellow+"pack"+ColorReset+" и "+ColorYellow+"inspect"+ColorReset+", ключ OpenAI для них не нужен")
	fmt.Fprintln(w)
}
