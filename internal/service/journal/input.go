package journal

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// MaxPhotoBytes caps the size of an attached photo.
const MaxPhotoBytes = 10 << 20

// MealInput holds the fields collected by the meal detail form.
type MealInput struct {
	Name   string
	Photo  *domain.Photo
	Rating int
}

// CanSave reports whether the form has enough to build a meal.
// Only the name gates saving; the rating is always within the control's range.
func (i MealInput) CanSave() bool {
	return strings.TrimSpace(i.Name) != ""
}

// Validate checks all fields and collects all errors.
func (i MealInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required", Err: domain.ErrEmptyName})
	}
	if i.Rating < domain.MinRating || i.Rating > domain.MaxRating {
		errs = append(errs, domain.FieldError{
			Field:   "rating",
			Message: fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating),
			Err:     domain.ErrRatingOutOfRange,
		})
	}
	if i.Photo != nil && len(i.Photo.Data) > 0 {
		if len(i.Photo.Data) > MaxPhotoBytes {
			errs = append(errs, domain.FieldError{Field: "photo", Message: "max 10 MiB"})
		} else if detected := mimetype.Detect(i.Photo.Data); !isImage(detected) {
			errs = append(errs, domain.FieldError{Field: "photo", Message: "must be an image"})
		} else if detected.Is(svgMIME) {
			errs = append(errs, domain.FieldError{Field: "photo", Message: "must be a raster image"})
		} else if ct := i.Photo.ContentType; ct != "" && !matchesDeclared(detected, ct) {
			errs = append(errs, domain.FieldError{
				Field:   "photo_content_type",
				Message: fmt.Sprintf("does not match photo data (%s)", detected.String()),
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Build validates the input and constructs the meal. The name is normalized,
// an empty photo counts as no photo, and the stored content type is always
// the one sniffed from the image bytes.
func (i MealInput) Build() (*domain.Meal, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}

	var photo *domain.Photo
	if i.Photo != nil && len(i.Photo.Data) > 0 {
		photo = &domain.Photo{ContentType: mimetype.Detect(i.Photo.Data).String(), Data: i.Photo.Data}
	}

	return domain.NewMeal(domain.NormalizeName(i.Name), photo, i.Rating)
}

// InputFromMeal pre-fills the form from an existing meal.
func InputFromMeal(m *domain.Meal) MealInput {
	in := MealInput{Name: m.Name, Rating: m.Rating}
	if m.Photo != nil {
		p := *m.Photo
		in.Photo = &p
	}
	return in
}

// svgMIME is rejected: an SVG document can carry script.
const svgMIME = "image/svg+xml"

// matchesDeclared reports whether the declared content type names the
// detected type, one of its aliases or one of its image parents.
func matchesDeclared(detected *mimetype.MIME, declared string) bool {
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") && m.Is(declared) {
			return true
		}
	}
	return false
}

func isImage(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
