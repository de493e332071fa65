package http

import (
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type CarHandler struct {
	carSvc service.CarService
}

func NewCarHandler(carSvc service.CarService) *CarHandler {
	return &CarHandler{carSvc: carSvc}
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var car domain.Car
	if !decodeJSON(w, r, &car) {
		return
	}
	car.OwnerID = userIDFrom(r)
	if err := h.carSvc.CreateCar(r.Context(), &car); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt32(r, "id")
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid car id"})
		return
	}
	car, err := h.carSvc.GetCar(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	onlyAvailable := r.URL.Query().Get("available") == "true"
	cars, total, err := h.carSvc.ListCars(r.Context(), onlyAvailable, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cars": cars,
		"meta": listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *CarHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	cars, err := h.carSvc.ListMyCars(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"cars": cars})
}
