package sentinel

var _ error = Error("")

// Error is an error backed by a string constant. Two Error values are equal
// when their messages are equal, so errors.Is works with the default ==
// comparison.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
