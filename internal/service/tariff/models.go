package tariff

import "time"

// Regime тарифный режим сегмента
type Regime string

const (
	RegimeBusinessHours Regime = "business_hours"
	RegimeOutOfHours    Regime = "out_of_hours"
)

// Segment максимальный подынтервал стоянки в пределах одних суток и одного тарифного режима
type Segment struct {
	Start   time.Time
	End     time.Time
	Regime  Regime
	Minutes int     // длительность, округлённая до минуты (>= 30 секунд вверх)
	Rate    float64 // ставка за час
	Charge  float64 // стоимость сегмента, округлённая до 2 знаков
}

// Quote расчёт стоимости стоянки с разбивкой по сегментам
type Quote struct {
	Entry    time.Time
	Exit     time.Time
	Segments []Segment
	Total    float64 // сумма уже округлённых стоимостей сегментов
}
