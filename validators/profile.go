package validators

import "errors"

var (
	ErrNameEmpty    = errors.New("no name provided")
	ErrCollegeEmpty = errors.New("no college provided")
	ErrBranchEmpty  = errors.New("no branch provided")
	ErrYearInvalid  = errors.New("invalid year provided")
	ErrPhoneEmpty   = errors.New("no phone number provided")
)

type Profile struct {
	Name    string
	College string
	Branch  string
	Year    int
	Phone   string
}

// ProfileValidator checks that every profile field required to finish a
// signup is present. Returns the first problem found.
func ProfileValidator(p Profile) error {
	if p.Name == "" {
		return ErrNameEmpty
	}

	if p.College == "" {
		return ErrCollegeEmpty
	}

	if p.Branch == "" {
		return ErrBranchEmpty
	}

	if p.Year <= 0 {
		return ErrYearInvalid
	}

	if p.Phone == "" {
		return ErrPhoneEmpty
	}

	return nil
}
