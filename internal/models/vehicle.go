package models

type Vehicle struct {
	VehicleID  int64      `json:"vehicle_id" db:"vehicle_id"`
	Model      string     `json:"model" db:"model"`
	ProdDate   Date       `json:"prod_date" db:"prod_date"`
	Year       int        `json:"year" db:"year"`
	Propulsion Propulsion `json:"propulsion" db:"propulsion"`
}

func (v Vehicle) Validate() error {
	if err := requireText("model", v.Model, 255); err != nil {
		return err
	}
	if err := requireDate("prod_date", v.ProdDate); err != nil {
		return err
	}
	if v.Year <= 0 {
		return invalid("year", "must be positive")
	}
	if !v.Propulsion.Valid() {
		return invalid("propulsion", "must be one of Gasoline, Diesel, Electric, Hybrid")
	}

	return nil
}

type VehiclePatch struct {
	Model      *string     `json:"model"`
	ProdDate   *Date       `json:"prod_date"`
	Year       *int        `json:"year"`
	Propulsion *Propulsion `json:"propulsion"`
}

func (p VehiclePatch) Validate() error {
	if p.Model != nil {
		if err := requireText("model", *p.Model, 255); err != nil {
			return err
		}
	}
	if p.ProdDate != nil {
		if err := requireDate("prod_date", *p.ProdDate); err != nil {
			return err
		}
	}
	if p.Year != nil && *p.Year <= 0 {
		return invalid("year", "must be positive")
	}
	if p.Propulsion != nil && !p.Propulsion.Valid() {
		return invalid("propulsion", "must be one of Gasoline, Diesel, Electric, Hybrid")
	}

	return nil
}
