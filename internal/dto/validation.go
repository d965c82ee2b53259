package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators attaches struct-level validation that the field
// tags cannot express: date ordering and clock-time pairing on leave
// request creation.
func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterStructValidation(createLeaveRequestStructLevel, CreateLeaveRequest{})
}

func createLeaveRequestStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateLeaveRequest)

	start, startErr := time.Parse(dateLayout, req.StartDate)
	end, endErr := time.Parse(dateLayout, req.EndDate)
	if startErr == nil && endErr == nil && end.Before(start) {
		sl.ReportError(req.EndDate, "EndDate", "endDate", "gtefield", "StartDate")
	}

	hasStart := req.StartTime != nil && *req.StartTime != ""
	hasEnd := req.EndTime != nil && *req.EndTime != ""
	if hasStart != hasEnd {
		sl.ReportError(req.StartTime, "StartTime", "startTime", "required_with", "EndTime")
	}
}
