package models

type Purchase struct {
	PurchaseID   int64        `json:"purchase_id" db:"purchase_id"`
	PurchaseType PurchaseType `json:"purchase_type" db:"purchase_type"`
	PurchaseDate Date         `json:"purchase_date" db:"purchase_date"`
	PartID       int64        `json:"part_id" db:"part_id"`
}

func (p Purchase) Validate() error {
	if !p.PurchaseType.Valid() {
		return invalid("purchase_type", "must be one of New, Used, Refurbished")
	}
	if err := requireDate("purchase_date", p.PurchaseDate); err != nil {
		return err
	}

	return requireID("part_id", p.PartID)
}

type PurchasePatch struct {
	PurchaseType *PurchaseType `json:"purchase_type"`
	PurchaseDate *Date         `json:"purchase_date"`
	PartID       *int64        `json:"part_id"`
}

func (p PurchasePatch) Validate() error {
	if p.PurchaseType != nil && !p.PurchaseType.Valid() {
		return invalid("purchase_type", "must be one of New, Used, Refurbished")
	}
	if p.PurchaseDate != nil {
		if err := requireDate("purchase_date", *p.PurchaseDate); err != nil {
			return err
		}
	}
	if p.PartID != nil {
		return requireID("part_id", *p.PartID)
	}

	return nil
}
