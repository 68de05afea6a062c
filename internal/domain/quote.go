package domain

const CurrencyUSD = "USD"

type NightBreakdown struct {
	Date                string `json:"date"`
	BaseCents           int64  `json:"baseCents"`
	WeekendUpliftCents  int64  `json:"weekendUpliftCents"`
	LengthDiscountCents int64  `json:"lengthDiscountCents"`
	BreakfastCents      int64  `json:"breakfastCents"`
	SubtotalCents       int64  `json:"subtotalCents"`
}

type Quote struct {
	Nights     int              `json:"nights"`
	Currency   string           `json:"currency"`
	TotalCents int64            `json:"totalCents"`
	PerNight   []NightBreakdown `json:"perNight"`
}
