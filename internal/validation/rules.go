package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

const namePunctuation = ".,!?-_()':;&"

// ValidateName checks emptiness, then length, then the character set.
// Only the first failing rule is reported.
func ValidateName(name string) *Error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return &Error{Field: "name", Kind: KindEmptyName, Message: "Name cannot be empty"}
	}

	if utf8.RuneCountInString(trimmed) > common.MaxNameLength {
		return &Error{
			Field:   "name",
			Kind:    KindNameTooLong,
			Message: fmt.Sprintf("Name cannot exceed %d characters", common.MaxNameLength),
		}
	}

	for _, r := range trimmed {
		if nameRune(r) {
			continue
		}
		return &Error{
			Field:   "name",
			Kind:    KindInvalidCharacters,
			Message: "Name contains invalid characters. Only letters, numbers, spaces, and basic punctuation are allowed",
		}
	}

	return nil
}

// nameRune accepts ASCII letters and digits, spaces, the Latin-1 and
// Latin Extended-A letters Sanitize keeps, and namePunctuation.
func nameRune(r rune) bool {
	switch {
	case r == ' ':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 0xA0 && r <= 0x17F:
		return unicode.IsLetter(r)
	}
	return strings.ContainsRune(namePunctuation, r)
}

// ValidateRating reports OutOfRange before NonInteger, so 11.5 is out of range.
func ValidateRating(rating float64) *Error {
	if math.IsNaN(rating) || rating < common.MinRating || rating > common.MaxRating {
		return &Error{
			Field: "rating",
			Kind:  KindOutOfRange,
			Message: fmt.Sprintf("Rating value %s is invalid. Must be between %d and %d",
				strconv.FormatFloat(rating, 'f', -1, 64), common.MinRating, common.MaxRating),
		}
	}

	if rating != math.Trunc(rating) {
		return &Error{Field: "rating", Kind: KindNonInteger, Message: "Rating must be a whole number"}
	}

	return nil
}

// ValidateMediaType accepts movie and tv only.
func ValidateMediaType(m models.MediaType) *Error {
	if _, err := models.ParseMediaType(string(m)); err != nil {
		return &Error{
			Field:   "media_type",
			Kind:    KindInvalidMediaType,
			Message: fmt.Sprintf("Invalid media type: %s. Must be 'movie' or 'tv'", m),
		}
	}
	return nil
}

// ValidateItem runs the name and rating rules in that order. An empty
// result means the draft can be submitted.
func ValidateItem(d models.Draft) []*Error {
	var errs []*Error
	if err := ValidateName(d.Name); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateRating(d.Rating); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ValidateIDs checks a batch-delete request: non-empty, at most
// MaxBatchDeleteSize ids, all positive.
func ValidateIDs(ids []int64) *Error {
	if len(ids) == 0 {
		return &Error{Field: "ids", Kind: KindEmptyIDList, Message: "ID list cannot be empty"}
	}

	if len(ids) > common.MaxBatchDeleteSize {
		return &Error{
			Field:   "ids",
			Kind:    KindTooManyIDs,
			Message: fmt.Sprintf("ID list cannot exceed %d items", common.MaxBatchDeleteSize),
		}
	}

	for _, id := range ids {
		if id <= 0 {
			return &Error{
				Field:   "ids",
				Kind:    KindInvalidID,
				Message: fmt.Sprintf("ID value %d is invalid. Must be between 1 and %d", id, int64(math.MaxInt64)),
			}
		}
	}

	return nil
}

// ClampRating pulls typed input into [MinRating, MaxRating]. NaN becomes MinRating.
func ClampRating(v float64) float64 {
	switch {
	case math.IsNaN(v), v < common.MinRating:
		return common.MinRating
	case v > common.MaxRating:
		return common.MaxRating
	}
	return v
}
