package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Car struct {
	ID          int32           `json:"id"`
	OwnerID     int32           `json:"owner_id"`
	Title       string          `json:"title"`
	Make        string          `json:"make"`
	Model       string          `json:"model"`
	Year        int32           `json:"year"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Location    string          `json:"location"`
	Available   bool            `json:"available"`
	Description string          `json:"description"`
	CreatedOn   time.Time       `json:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"`
}
