package packer

import (
	"contextAgent/internal/budget"
	"contextAgent/internal/message"
)

// selection накапливает выбранные индексы сообщений под общий лимит.
type selection struct {
	msgs     []message.Message
	meter    *budget.Meter
	picked   map[int]bool
	eligible func(i int) bool
}

func newSelection(msgs []message.Message, b budget.Budget) *selection {
	return &selection{
		msgs:   msgs,
		meter:  budget.NewMeter(b.MaxChars, 0),
		picked: make(map[int]bool, len(msgs)),
	}
}

// tryAdd пытается выбрать сообщение i.
// Уже выбранное сообщение - успех без изменений; не поместившееся отклоняется окончательно.
func (s *selection) tryAdd(i int) bool {
	if s.picked[i] {
		return true
	}
	if s.eligible != nil && !s.eligible(i) {
		return false
	}
	if !s.meter.Admit(budget.Len(s.msgs[i].Content)) {
		return false
	}
	s.picked[i] = true
	return true
}

// admit проходит по порядку попыток и вызывает onReject для каждого отказа.
func (s *selection) admit(order []int, onReject func(i int)) {
	for _, i := range order {
		if !s.tryAdd(i) && onReject != nil {
			onReject(i)
		}
	}
}

func firstIndex(msgs []message.Message, role message.Role) int {
	for i, m := range msgs {
		if m.Role == role {
			return i
		}
	}
	return -1
}

func lastIndex(msgs []message.Message, role message.Role) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return i
		}
	}
	return -1
}

func indexesOf(msgs []message.Message, role message.Role) []int {
	var out []int
	for i, m := range msgs {
		if m.Role == role {
			out = append(out, i)
		}
	}
	return out
}

// newestFirst возвращает индексы от последнего к первому, пропуская skip.
func newestFirst(n, skip int) []int {
	out := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		if i != skip {
			out = append(out, i)
		}
	}
	return out
}
