// Command mealctl edits the meal journal from the command line, against the
// same storage the server uses.
//
// Usage:
//
//	mealctl list
//	mealctl show   -index N [-photo-out FILE]
//	mealctl add    -name NAME [-rating 0..5] [-photo FILE]
//	mealctl edit   -index N [-name NAME] [-rating 0..5] [-photo FILE] [-remove-photo]
//	mealctl rm     -index N
//	mealctl rate   -index N -star 1..5
//	mealctl version
//
// Every change is saved immediately. Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/foodtracker-backend/internal/app"
	"github.com/heartmarshall/foodtracker-backend/internal/config"
	"github.com/heartmarshall/foodtracker-backend/internal/domain"
	"github.com/heartmarshall/foodtracker-backend/internal/service/journal"
	"github.com/heartmarshall/foodtracker-backend/internal/service/rating"
)

var errUsage = errors.New("usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLoggerTo(os.Stderr, cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		cancel()
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		logger.Error("mealctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, "commands: list, show, add, edit, rm, rate, version")
		return errUsage
	}

	cmd, args := args[0], args[1:]
	if cmd == "version" {
		fmt.Fprintln(out, app.BuildVersion())
		return nil
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		index       = fs.Int("index", -1, "meal index")
		name        = fs.String("name", "", "meal name")
		ratingValue = fs.Int("rating", 0, "rating 0..5")
		photo       = fs.String("photo", "", "path to a photo file")
		removePhoto = fs.Bool("remove-photo", false, "drop the current photo")
		star        = fs.Int("star", 0, "star to tap, 1..5")
		photoOut    = fs.String("photo-out", "", "write the meal photo to this file")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	svc, _, closeStorage, err := app.OpenJournal(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	switch cmd {
	case "list":
		return list(svc, out)

	case "show":
		m, err := svc.Meal(*index)
		if err != nil {
			return err
		}
		printMeal(out, *index, m)
		if *photoOut != "" {
			if !m.HasPhoto() {
				return fmt.Errorf("meal %d has no photo", *index)
			}
			return os.WriteFile(*photoOut, m.Photo.Data, 0o644)
		}
		return nil

	case "add":
		in := journal.MealInput{Name: *name, Rating: *ratingValue}
		if err := attachPhoto(&in, *photo); err != nil {
			return err
		}
		m, err := in.Build()
		if err != nil {
			return err
		}
		i, err := svc.Add(ctx, m)
		if err != nil {
			return err
		}
		printMeal(out, i, m)
		return nil

	case "edit":
		var replacement journal.MealInput
		if err := attachPhoto(&replacement, *photo); err != nil {
			return err
		}
		m, err := svc.Edit(ctx, *index, func(in journal.MealInput) journal.MealInput {
			if set["name"] {
				in.Name = *name
			}
			if set["rating"] {
				in.Rating = *ratingValue
			}
			if *removePhoto {
				in.Photo = nil
			}
			if replacement.Photo != nil {
				in.Photo = replacement.Photo
			}
			return in
		})
		if err != nil {
			return err
		}
		printMeal(out, *index, m)
		return nil

	case "rm":
		if err := svc.Delete(ctx, *index); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed meal %d, %d left\n", *index, svc.Len())
		return nil

	case "rate":
		value, err := svc.TapRating(ctx, *index, *star)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "meal %d rated %s\n", *index, stars(value))
		return nil

	default:
		fmt.Fprintf(out, "unknown command %q\n", cmd)
		return errUsage
	}
}

func list(svc *journal.Service, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tRATING\tPHOTO")
	for i, m := range svc.Meals() {
		photo := "-"
		if m.HasPhoto() {
			photo = m.Photo.ContentType
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, m.Name, stars(m.Rating), photo)
	}
	return tw.Flush()
}

func printMeal(out io.Writer, i int, m *domain.Meal) {
	photo := "no photo"
	if m.HasPhoto() {
		photo = fmt.Sprintf("%s, %d bytes", m.Photo.ContentType, len(m.Photo.Data))
	}
	fmt.Fprintf(out, "%d: %s %s (%s)\n", i, m.Name, stars(m.Rating), photo)
}

func attachPhoto(in *journal.MealInput, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	in.Photo = &domain.Photo{Data: data}
	return nil
}

// stars renders a rating the way the form's control shows it.
func stars(value int) string {
	c := rating.New(domain.MaxRating, nil)
	if err := c.Set(value); err != nil {
		return fmt.Sprintf("%d/%d", value, c.StarCount())
	}
	var b strings.Builder
	for s := 1; s <= c.StarCount(); s++ {
		if c.Selected(s) {
			b.WriteString("★")
		} else {
			b.WriteString("☆")
		}
	}
	return b.String()
}
