package packer

import (
	"contextAgent/internal/budget"
	"contextAgent/internal/message"
)

// RecencyFirst оставляет первое системное сообщение, затем добирает остальные
// сообщения от новых к старым. Если системное сообщение само не помещается в лимит,
// Packed пуст, а все сообщения попадают в Dropped.
//
// Проход однократный: сообщение, не поместившееся в лимит, больше не рассматривается,
// даже если более старое сообщение меньше. Системные сообщения кроме первого не сохраняются.
// Dropped заполняется в порядке отказов.
func RecencyFirst(messages []message.Message, b budget.Budget) Result {
	sys := firstIndex(messages, message.RoleSystem)

	sel := newSelection(messages, b)
	sel.eligible = func(i int) bool {
		return i == sys || messages[i].Role != message.RoleSystem
	}

	order := newestFirst(len(messages), sys)

	var dropped []message.Message
	if sys >= 0 && !sel.tryAdd(sys) {
		// Без системного сообщения упаковка не продолжается.
		dropped = append(dropped, messages[sys])
		for _, i := range order {
			dropped = append(dropped, messages[i])
		}
		return newResult([]message.Message{}, dropped)
	}

	sel.admit(order, func(i int) {
		dropped = append(dropped, messages[i])
	})

	packed := make([]message.Message, 0, len(sel.picked))
	if sys >= 0 && sel.picked[sys] {
		packed = append(packed, messages[sys])
	}
	for i, m := range messages {
		if i != sys && sel.picked[i] {
			packed = append(packed, m)
		}
	}

	return newResult(packed, dropped)
}
