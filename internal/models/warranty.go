package models

// Warranty — гарантийное обращение (факт ремонта).
type Warranty struct {
	ClaimKey        int64   `json:"claim_key" db:"claim_key"`
	VehicleID       int64   `json:"vehicle_id" db:"vehicle_id"`
	RepairDate      Date    `json:"repair_date" db:"repair_date"`
	ClientComplaint *string `json:"client_complaint" db:"client_complaint"`
	TechComment     *string `json:"tech_comment" db:"tech_comment"`
	PartID          int64   `json:"part_id" db:"part_id"`
	ClassifiedIssue *string `json:"classified_issue" db:"classified_issue"`
	LocationID      int64   `json:"location_id" db:"location_id"`
	PurchaseID      int64   `json:"purchase_id" db:"purchase_id"`
}

const maxCommentLen = 65535

func (w Warranty) Validate() error {
	if err := requireID("vehicle_id", w.VehicleID); err != nil {
		return err
	}
	if err := requireDate("repair_date", w.RepairDate); err != nil {
		return err
	}
	if err := optionalText("client_complaint", w.ClientComplaint, maxCommentLen); err != nil {
		return err
	}
	if err := optionalText("tech_comment", w.TechComment, maxCommentLen); err != nil {
		return err
	}
	if err := optionalText("classified_issue", w.ClassifiedIssue, 50); err != nil {
		return err
	}
	if err := requireID("part_id", w.PartID); err != nil {
		return err
	}
	if err := requireID("location_id", w.LocationID); err != nil {
		return err
	}

	return requireID("purchase_id", w.PurchaseID)
}

type WarrantyPatch struct {
	VehicleID       *int64  `json:"vehicle_id"`
	RepairDate      *Date   `json:"repair_date"`
	ClientComplaint *string `json:"client_complaint"`
	TechComment     *string `json:"tech_comment"`
	PartID          *int64  `json:"part_id"`
	ClassifiedIssue *string `json:"classified_issue"`
	LocationID      *int64  `json:"location_id"`
	PurchaseID      *int64  `json:"purchase_id"`
}

func (p WarrantyPatch) Validate() error {
	ids := []struct {
		field string
		v     *int64
	}{
		{"vehicle_id", p.VehicleID},
		{"part_id", p.PartID},
		{"location_id", p.LocationID},
		{"purchase_id", p.PurchaseID},
	}
	for _, id := range ids {
		if id.v != nil {
			if err := requireID(id.field, *id.v); err != nil {
				return err
			}
		}
	}

	if p.RepairDate != nil {
		if err := requireDate("repair_date", *p.RepairDate); err != nil {
			return err
		}
	}
	if err := optionalText("client_complaint", p.ClientComplaint, maxCommentLen); err != nil {
		return err
	}
	if err := optionalText("tech_comment", p.TechComment, maxCommentLen); err != nil {
		return err
	}

	return optionalText("classified_issue", p.ClassifiedIssue, 50)
}

func optionalText(field string, v *string, max int) error {
	if v == nil {
		return nil
	}

	return maxText(field, *v, max)
}
