package budget

// Meter - примитив допуска кандидатов под лимит.
// Решение по каждому кандидату окончательное: отклоненная стоимость не резервируется
// и повторно не рассматривается вызывающим кодом.
type Meter struct {
	limit int
	used  int
}

// NewMeter создает счетчик с уже израсходованной частью used (например, рамкой документа).
func NewMeter(limit, used int) *Meter {
	return &Meter{limit: limit, used: used}
}

// Fits сообщает, поместится ли кандидат стоимостью cost.
func (m *Meter) Fits(cost int) bool {
	return m.used+cost <= m.limit
}

// Admit добавляет кандидата, если он помещается. Возвращает false без изменений, если нет.
func (m *Meter) Admit(cost int) bool {
	if !m.Fits(cost) {
		return false
	}
	m.used += cost
	return true
}

func (m *Meter) Used() int { return m.used }

// Remaining может быть отрицательным, если начальный расход уже превысил лимит.
func (m *Meter) Remaining() int { return m.limit - m.used }
