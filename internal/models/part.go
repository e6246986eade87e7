package models

// Part — деталь. LastIDPurchase пуст, пока деталь ни разу не закупалась.
type Part struct {
	PartID         int64  `json:"part_id" db:"part_id"`
	PartName       string `json:"part_name" db:"part_name"`
	LastIDPurchase *int64 `json:"last_id_purchase" db:"last_id_purchase"`
	SupplierID     int64  `json:"supplier_id" db:"supplier_id"`
}

func (p Part) Validate() error {
	if err := requireText("part_name", p.PartName, 255); err != nil {
		return err
	}
	if p.LastIDPurchase != nil && *p.LastIDPurchase <= 0 {
		return invalid("last_id_purchase", "must be a positive id")
	}

	return requireID("supplier_id", p.SupplierID)
}

type PartPatch struct {
	PartName       *string `json:"part_name"`
	LastIDPurchase *int64  `json:"last_id_purchase"`
	SupplierID     *int64  `json:"supplier_id"`
}

func (p PartPatch) Validate() error {
	if p.PartName != nil {
		if err := requireText("part_name", *p.PartName, 255); err != nil {
			return err
		}
	}
	if p.LastIDPurchase != nil {
		if err := requireID("last_id_purchase", *p.LastIDPurchase); err != nil {
			return err
		}
	}
	if p.SupplierID != nil {
		return requireID("supplier_id", *p.SupplierID)
	}

	return nil
}
