package packer

import (
	"contextAgent/internal/budget"
	"contextAgent/internal/message"
)

// PriorityFirst выбирает сообщения по уровням приоритета:
//  1. первое системное сообщение;
//  2. все developer-сообщения по порядку;
//  3. последнее сообщение пользователя;
//  4. все tool-сообщения по порядку;
//  5. остальные сообщения от новых к старым.
//
// На пятом уровне первое системное сообщение не повторяется: если оно не поместилось
// на первом уровне, второй попытки нет. Packed - выбранные сообщения в исходном порядке,
// Dropped - остальные, тоже в исходном порядке.
func PriorityFirst(messages []message.Message, b budget.Budget) Result {
	sys := firstIndex(messages, message.RoleSystem)

	var tiers [][]int
	if sys >= 0 {
		tiers = append(tiers, []int{sys})
	}
	tiers = append(tiers, indexesOf(messages, message.RoleDeveloper))
	if u := lastIndex(messages, message.RoleUser); u >= 0 {
		tiers = append(tiers, []int{u})
	}
	tiers = append(tiers, indexesOf(messages, message.RoleTool))
	// Уже выбранные сообщения на последнем уровне - no-op, поэтому список можно построить заранее.
	tiers = append(tiers, newestFirst(len(messages), sys))

	sel := newSelection(messages, b)
	for _, tier := range tiers {
		sel.admit(tier, nil)
	}

	var packed, dropped []message.Message
	for i, m := range messages {
		if sel.picked[i] {
			packed = append(packed, m)
		} else {
			dropped = append(dropped, m)
		}
	}

	return newResult(packed, dropped)
}
