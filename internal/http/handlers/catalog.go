package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/warranty-api/internal/errors"
	"github.com/pribylovaa/warranty-api/internal/models"
)

// CatalogRoutes регистрирует маршруты всех справочников.
// Защита сессией навешивается снаружи (см. router.go).
func (h *Handlers) CatalogRoutes(r chi.Router) {
	r.Route("/locations", h.locationRoutes)
	r.Route("/suppliers", h.supplierRoutes)
	r.Route("/parts", h.partRoutes)
	r.Route("/purchases", h.purchaseRoutes)
	r.Route("/vehicles", h.vehicleRoutes)
	r.Route("/warranties", h.warrantyRoutes)
}

func (h *Handlers) locationRoutes(r chi.Router) {
	l := h.catalog.Locations

	r.Get("/by-market/{market}", byStringHandler("market", l.ByMarket))
	r.Get("/cities/{country}", byStringHandler("country", l.Cities))
	r.Get("/provinces/{country}", byStringHandler("country", l.Provinces))
	r.Get("/cities/{country}/{province}", func(w http.ResponseWriter, r *http.Request) {
		cities, err := l.CitiesByProvince(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "province"))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cities)
	})
	r.Get("/count-by-country", countsHandler(l.CountByCountry))
	r.Get("/unique-cities-by-country", countsHandler(l.UniqueCitiesByCountry))
	r.Get("/count-provinces-by-country", countsHandler(l.ProvincesCountByCountry))
	r.Get("/count-by-market", countsHandler(l.CountByMarket))

	mountCRUD[models.Location, models.LocationPatch](r, l.Resource, "location_id", false)
}

func (h *Handlers) supplierRoutes(r chi.Router) {
	s := h.catalog.Suppliers

	r.Get("/by-location/{location_id}", byIDHandler("location_id", s.ByLocation))
	r.Get("/by-country/{country}", byStringHandler("country", s.ByCountry))
	r.Get("/by-province/{province}", byStringHandler("province", s.ByProvince))
	r.Get("/unique-suppliers-by-country", countsHandler(s.UniqueByCountry))
	r.Get("/top-locations", listHandler(s.TopLocations))
	r.Get("/count-suppliers-per-location", countsHandler(s.CountPerLocation))
	r.Get("/count-by-location", countsHandler(s.CountByLocation))
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		name, err := requiredQuery(r, "name")
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		items, err := s.SearchByName(r.Context(), name)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	mountCRUD[models.Supplier, models.SupplierPatch](r, s.Resource, "supplier_id", false)
}

type totalPartsResponse struct {
	TotalParts int64 `json:"total_parts"`
}

type totalPurchasedPartsResponse struct {
	TotalPurchasedParts int64 `json:"total_purchased_parts"`
}

func (h *Handlers) partRoutes(r chi.Router) {
	p := h.catalog.Parts

	r.Get("/by-purchase/{last_id_purchase}", byIDHandler("last_id_purchase", p.ByPurchase))
	r.Get("/purchased-by-supplier/{supplier_id}", byIDHandler("supplier_id", p.PurchasedBySupplier))
	r.Get("/by-supplier/{supplier_id}", byIDHandler("supplier_id", p.BySupplier))
	r.Get("/purchased", listHandler(p.Purchased))
	r.Get("/count-purchases-by-supplier", countsHandler(p.CountPurchasesBySupplier))
	r.Get("/count-by-supplier", countsHandler(p.CountBySupplier))
	r.Get("/count-purchased", func(w http.ResponseWriter, r *http.Request) {
		n, err := p.CountPurchased(r.Context())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, totalPurchasedPartsResponse{TotalPurchasedParts: n})
	})
	r.Get("/count", func(w http.ResponseWriter, r *http.Request) {
		n, err := p.Count(r.Context())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, totalPartsResponse{TotalParts: n})
	})

	mountCRUD[models.Part, models.PartPatch](r, p.Resource, "part_id", false)
}

func (h *Handlers) purchaseRoutes(r chi.Router) {
	p := h.catalog.Purchases

	r.Get("/by-type-and-date", func(w http.ResponseWriter, r *http.Request) {
		typ, err := requiredQuery(r, "purchase_type")
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		from, to, err := queryDateRange(r)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		items, err := p.ByTypeAndDate(r.Context(), typ, from, to)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})
	r.Get("/by-part/{part_id}", byIDHandler("part_id", p.ByPart))
	r.Get("/by-type/{purchase_type}", byStringHandler("purchase_type", p.ByType))
	r.Get("/count-by-year", countsHandler(p.CountByYear))
	r.Get("/count-by-month", countsHandler(p.CountByMonth))
	r.Get("/count-by-type", countsHandler(p.CountByType))

	// Закупки в bulk возвращают созданные записи.
	mountCRUD[models.Purchase, models.PurchasePatch](r, p.Resource, "purchase_id", true)
}

func (h *Handlers) vehicleRoutes(r chi.Router) {
	v := h.catalog.Vehicles

	r.Get("/by-prod-date-range", dateRangeHandler(v.ByProdDateRange))
	r.Get("/by-model/{model}", byStringHandler("model", v.ByModel))
	r.Get("/by-propulsion/{propulsion}", byStringHandler("propulsion", v.ByPropulsion))
	r.Get("/by-year/{year}", func(w http.ResponseWriter, r *http.Request) {
		year, err := pathInt(r, "year")
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		items, err := v.ByYear(r.Context(), year)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})
	r.Get("/count-by-year-range", func(w http.ResponseWriter, r *http.Request) {
		from, err := requiredQueryInt(r, "start_year")
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		to, err := requiredQueryInt(r, "end_year")
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		c, err := v.CountByYearRange(r.Context(), from, to)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	})
	r.Get("/count-by-propulsion", countsHandler(v.CountByPropulsion))
	r.Get("/count-by-year", countsHandler(v.CountByYear))
	r.Get("/count-by-prod-month", countsHandler(v.CountByProdMonth))

	mountCRUD[models.Vehicle, models.VehiclePatch](r, v.Resource, "vehicle_id", false)
}

func (h *Handlers) warrantyRoutes(r chi.Router) {
	wr := h.catalog.Warranties

	r.Get("/by-date-range", dateRangeHandler(wr.ByDateRange))
	r.Get("/by-vehicle/{vehicle_id}", byIDHandler("vehicle_id", wr.ByVehicle))
	r.Get("/by-part/{part_id}", byIDHandler("part_id", wr.ByPart))
	r.Get("/by-location/{location_id}", byIDHandler("location_id", wr.ByLocation))
	r.Get("/count-by-vehicle", countsHandler(wr.CountByVehicle))
	r.Get("/count-by-part", countsHandler(wr.CountByPart))
	r.Get("/count-by-location", countsHandler(wr.CountByLocation))
	r.Get("/count-by-year", countsHandler(wr.CountByYear))

	mountCRUD[models.Warranty, models.WarrantyPatch](r, wr.Resource, "claim_key", false)
}
