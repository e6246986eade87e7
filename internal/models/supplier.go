package models

type Supplier struct {
	SupplierID   int64  `json:"supplier_id" db:"supplier_id"`
	SupplierName string `json:"supplier_name" db:"supplier_name"`
	LocationID   int64  `json:"location_id" db:"location_id"`
}

func (s Supplier) Validate() error {
	if err := requireText("supplier_name", s.SupplierName, 50); err != nil {
		return err
	}

	return requireID("location_id", s.LocationID)
}

type SupplierPatch struct {
	SupplierName *string `json:"supplier_name"`
	LocationID   *int64  `json:"location_id"`
}

func (p SupplierPatch) Validate() error {
	if p.SupplierName != nil {
		if err := requireText("supplier_name", *p.SupplierName, 50); err != nil {
			return err
		}
	}
	if p.LocationID != nil {
		return requireID("location_id", *p.LocationID)
	}

	return nil
}

// LocationCount — число поставщиков в локации.
type LocationCount struct {
	LocationID int64 `json:"location_id" db:"location_id"`
	Count      int64 `json:"count" db:"count"`
}
