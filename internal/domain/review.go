package domain

import "time"

type Review struct {
	ID         int32     `json:"id"`
	RentalID   int32     `json:"rental_id"`
	CarID      int32     `json:"car_id"`
	CustomerID int32     `json:"customer_id"`
	OwnerID    int32     `json:"owner_id"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedOn  time.Time `json:"created_on"`
}
