package recipe

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the shape of a dataset once, at the loading boundary.
// Everything downstream assumes a validated dataset and never re-checks it.
func Validate(ds *Dataset) error {
	if err := validate.Struct(ds); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidDataset, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	seen := make(map[string]int, len(ds.Recipes))
	for i, r := range ds.Recipes {
		if j, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q at positions %d and %d", ErrInvalidDataset, r.ID, j, i)
		}
		seen[r.ID] = i
	}
	return nil
}
