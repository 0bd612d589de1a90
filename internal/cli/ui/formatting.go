package ui

import (
	"fmt"
	"io"
)

// FormatOutcome возвращает иконку, цвет и текст для результата сценария
func FormatOutcome(passed bool) (icon, color, text string) {
	if passed {
		return IconCheckmark, ColorGreen, "PASS"
	}
	return IconCross, ColorRed, "FAIL"
}

// Section печатает заголовок раздела вывода
func Section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n"+ColorBold+"=== %s ==="+ColorReset+"\n", title)
}

// Error печатает сообщение об ошибке
func Error(w io.Writer, msg string, err error) {
	if err != nil {
		fmt.Fprintf(w, ColorRed+IconCross+" %s:"+ColorReset+" %v\n", msg, err)
		return
	}
	fmt.Fprintln(w, ColorRed+IconCross+" "+msg+ColorReset)
}

// Success печатает сообщение об успехе
func Success(w io.Writer, msg string) {
	fmt.Fprintln(w, ColorGreen+IconCheckmark+" "+msg+ColorReset)
}
