package report

import "errors"

var (
	ErrReportNotFound          = errors.New("report not found")
	ErrInvalidStatus           = errors.New("invalid report status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrStatusChanged           = errors.New("report status changed concurrently")
)
