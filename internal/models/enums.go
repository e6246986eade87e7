package models

// Market — тип рынка локации.
type Market string

const (
	MarketDomestic      Market = "Domestic"
	MarketInternational Market = "International"
)

func (m Market) Valid() bool {
	return m == MarketDomestic || m == MarketInternational
}

// ParseMarket проверяет значение из пути/query.
func ParseMarket(s string) (Market, error) {
	if m := Market(s); m.Valid() {
		return m, nil
	}

	return "", invalid("market", "must be one of Domestic, International")
}

// Propulsion — тип силовой установки автомобиля.
type Propulsion string

const (
	PropulsionGasoline Propulsion = "Gasoline"
	PropulsionDiesel   Propulsion = "Diesel"
	PropulsionElectric Propulsion = "Electric"
	PropulsionHybrid   Propulsion = "Hybrid"
)

func (p Propulsion) Valid() bool {
	switch p {
	case PropulsionGasoline, PropulsionDiesel, PropulsionElectric, PropulsionHybrid:
		return true
	}

	return false
}

func ParsePropulsion(s string) (Propulsion, error) {
	if p := Propulsion(s); p.Valid() {
		return p, nil
	}

	return "", invalid("propulsion", "must be one of Gasoline, Diesel, Electric, Hybrid")
}

// PurchaseType — состояние детали при закупке.
type PurchaseType string

const (
	PurchaseNew         PurchaseType = "New"
	PurchaseUsed        PurchaseType = "Used"
	PurchaseRefurbished PurchaseType = "Refurbished"
)

func (t PurchaseType) Valid() bool {
	return t == PurchaseNew || t == PurchaseUsed || t == PurchaseRefurbished
}

func ParsePurchaseType(s string) (PurchaseType, error) {
	if t := PurchaseType(s); t.Valid() {
		return t, nil
	}

	return "", invalid("purchase_type", "must be one of New, Used, Refurbished")
}
