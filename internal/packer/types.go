// Package packer отбирает сообщения контекста под лимит символов.
// Реализованы две политики: recency-first (свежие сообщения важнее) и
// priority-first (системные и developer-инструкции и последний запрос пользователя важнее истории).
package packer

import (
	"fmt"
	"strings"

	"contextAgent/internal/budget"
	"contextAgent/internal/message"
)

// Result - итог упаковки.
// Packed идет в хронологическом порядке, Dropped - в порядке, который определяет политика.
// Каждое входное сообщение попадает ровно в один из срезов.
type Result struct {
	Packed     []message.Message
	Dropped    []message.Message
	FinalChars int
}

// Policy - имя политики упаковки.
type Policy string

const (
	PolicyRecency  Policy = "recency"
	PolicyPriority Policy = "priority"
)

// ParsePolicy разбирает имя политики без учета регистра.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyRecency, PolicyPriority:
		return p, nil
	default:
		return "", fmt.Errorf("неизвестная политика упаковки %q (ожидается recency или priority)", s)
	}
}

// Pack применяет политику. Пустое или неизвестное имя трактуется как priority.
func (p Policy) Pack(messages []message.Message, b budget.Budget) Result {
	if p == PolicyRecency {
		return RecencyFirst(messages, b)
	}
	return PriorityFirst(messages, b)
}

func newResult(packed, dropped []message.Message) Result {
	return Result{
		Packed:     packed,
		Dropped:    dropped,
		FinalChars: budget.SizeChars(packed),
	}
}
