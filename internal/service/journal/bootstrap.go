package journal

import (
	"embed"
	"fmt"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// Bootstrap produces the initial journal content when no archive exists yet
// (or the existing one cannot be decoded).
type Bootstrap func() ([]*domain.Meal, error)

// NoBootstrap leaves a fresh journal empty.
func NoBootstrap() ([]*domain.Meal, error) {
	return nil, nil
}

//go:embed samples/*.png
var samplePhotos embed.FS

type sample struct {
	name   string
	photo  string
	rating int
}

var samples = []sample{
	{name: "Caprese Salad", photo: "samples/meal1.png", rating: 4},
	{name: "Chicken and Potatoes", photo: "samples/meal2.png", rating: 5},
	{name: "Pasta and Meatballs", photo: "samples/meal3.png", rating: 3},
}

// SampleMeals seeds a fresh journal with three sample meals and their
// bundled photos.
func SampleMeals() ([]*domain.Meal, error) {
	meals := make([]*domain.Meal, 0, len(samples))
	for _, s := range samples {
		data, err := samplePhotos.ReadFile(s.photo)
		if err != nil {
			return nil, fmt.Errorf("sample %q: read photo: %w", s.name, err)
		}
		m, err := domain.NewMeal(s.name, &domain.Photo{ContentType: "image/png", Data: data}, s.rating)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", s.name, err)
		}
		meals = append(meals, m)
	}
	return meals, nil
}
