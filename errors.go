package qsearch

import "fmt"

/*
InvalidInputError is returned when a query cannot be encoded into a register:
an empty value list, a non-positive threshold, a negative value, or a register
too wide to simulate. It is raised before any other work is done.
*/
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

/*
NumericalPrecisionWarning records a norm that drifted further from 1 than the
configured tolerance. It is never returned as a failure; the pipeline logs it,
keeps it on the diagnostics and continues with renormalised data.
*/
type NumericalPrecisionWarning struct {
	Stage     string
	Deviation float64
	Tolerance float64
}

func (w NumericalPrecisionWarning) Error() string {
	return fmt.Sprintf(
		"numerical precision: %s deviates by %.3g (tolerance %.3g)",
		w.Stage, w.Deviation, w.Tolerance,
	)
}
