package service

import "errors"

var (
	ErrInvalidID                 = errors.New("invalid id")
	ErrQuotationNotFound         = errors.New("quotation not found")
	ErrInvalidStatusTransition   = errors.New("invalid status transition")
	ErrQuotationLocked           = errors.New("quotation is approved and can no longer be edited")
	ErrCargoItemNotFound         = errors.New("cargo item not found")
	ErrOperationalRecordNotFound = errors.New("operational cost record not found")
	ErrOperationalRecordExists   = errors.New("operational cost record already exists")
	ErrHSCodeNotFound            = errors.New("no active hs code rate")
	ErrHSCodeOverlap             = errors.New("hs code rate overlaps an existing period")
	ErrInvalidInput              = errors.New("invalid input")
)
