package models

// Location — точка продаж/обслуживания.
type Location struct {
	LocationID int64  `json:"location_id" db:"location_id"`
	Market     Market `json:"market" db:"market"`
	Country    string `json:"country" db:"country"`
	Province   string `json:"province" db:"province"`
	City       string `json:"city" db:"city"`
}

func (l Location) Validate() error {
	if !l.Market.Valid() {
		return invalid("market", "must be one of Domestic, International")
	}
	if err := requireText("country", l.Country, 50); err != nil {
		return err
	}
	if err := requireText("province", l.Province, 50); err != nil {
		return err
	}

	return requireText("city", l.City, 50)
}

// LocationPatch — частичное обновление; nil-поля не меняются.
type LocationPatch struct {
	Market   *Market `json:"market"`
	Country  *string `json:"country"`
	Province *string `json:"province"`
	City     *string `json:"city"`
}

func (p LocationPatch) Validate() error {
	if p.Market != nil && !p.Market.Valid() {
		return invalid("market", "must be one of Domestic, International")
	}
	if p.Country != nil {
		if err := requireText("country", *p.Country, 50); err != nil {
			return err
		}
	}
	if p.Province != nil {
		if err := requireText("province", *p.Province, 50); err != nil {
			return err
		}
	}
	if p.City != nil {
		return requireText("city", *p.City, 50)
	}

	return nil
}
