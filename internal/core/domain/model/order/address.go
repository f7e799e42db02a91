package order

import (
	"strings"

	"orderflow/internal/pkg/errs"
)

// Address is the delivery destination as entered at checkout.
type Address struct {
	line string
	city string
	note string
}

// NewAddress requires the street line; city and courier note are optional.
func NewAddress(line, city, note string) (Address, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Address{}, errs.NewValueIsRequiredError("address line")
	}
	return Address{line: line, city: strings.TrimSpace(city), note: strings.TrimSpace(note)}, nil
}

func (a Address) Line() string {
	return a.line
}

func (a Address) City() string {
	return a.city
}

func (a Address) Note() string {
	return a.note
}

func (a Address) Validate() error {
	if a.line == "" {
		return errs.NewValueIsRequiredError("address line")
	}
	return nil
}
