package grib

import "fmt"

// FieldNotFoundError reports that no message in the stream matched the
// criteria. It is the absence signal: loaders never return a nil field
// with a nil error.
type FieldNotFoundError struct {
	Criteria Criteria
}

func (e *FieldNotFoundError) Error() string {
	msg := fmt.Sprintf("no field matching parameter %s", e.Criteria.Parameter)
	if e.Criteria.LevelType != "" {
		msg += fmt.Sprintf(", typeOfLevel %s", e.Criteria.LevelType)
	}
	if e.Criteria.Level != nil {
		msg += fmt.Sprintf(", level %g", *e.Criteria.Level)
	}
	return msg
}
