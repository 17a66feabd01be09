package payroll

import "errors"

var ErrMonthPaymentNotFound = errors.New("month payment record not found")
