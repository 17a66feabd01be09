package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

type Staff struct {
	ID         int64
	FullName   string
	HourlyWage decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
