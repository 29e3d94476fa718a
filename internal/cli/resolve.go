package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tOgg1/emitline/internal/config"
	"github.com/tOgg1/emitline/internal/db"
	"github.com/tOgg1/emitline/internal/models"
)

const (
	maxSuggestions = 5

	// currentSetRef names the current set where a set argument is required.
	currentSetRef = "."
)

func shortID(id string) string {
	const limit = 8
	if len(id) <= limit {
		return id
	}
	return id[:limit]
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// resolveSet finds a set by ID or name, falling back to the current set when
// ref is empty or ".".
func resolveSet(ctx context.Context, repo *db.SetRepository, ref string) (*models.EmissionSet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == currentSetRef {
		current, err := contextStore().Load()
		if err != nil {
			return nil, err
		}
		if !current.HasSet() {
			return nil, &PreflightError{
				Message:  "no set given and no current set",
				Hint:     "Pass a set name or pick one with `emitline set use`",
				NextStep: "emitline set list",
			}
		}
		ref = current.SetID
	}

	set, err := repo.Resolve(ctx, ref)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, db.ErrSetNotFound) {
		return nil, fmt.Errorf("failed to get set: %w", err)
	}

	summaries, listErr := repo.List(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("failed to list sets: %w", listErr)
	}
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return nil, notFound("set", ref, names)
}

// resolveEmission finds an emission of set by ID, name or 1-based row.
func resolveEmission(set *models.EmissionSet, ref string) (*models.Emission, error) {
	if e, ok := set.Find(ref); ok {
		return e, nil
	}
	var row int
	if _, err := fmt.Sscanf(ref, "#%d", &row); err == nil && row >= 1 && row <= len(set.Emissions) {
		return set.Emissions[row-1], nil
	}
	names := make([]string, 0, len(set.Emissions))
	for _, e := range set.Emissions {
		names = append(names, e.Name)
	}
	return nil, notFound("emission", ref, names)
}

func notFound(kind, ref string, candidates []string) error {
	suggestions := suggest(ref, candidates)
	if len(suggestions) == 0 {
		return fmt.Errorf("%s %q not found", kind, ref)
	}
	return fmt.Errorf("%s %q not found (did you mean: %s?)", kind, ref, strings.Join(suggestions, ", "))
}

// suggest returns candidates sharing a case-insensitive prefix or substring
// with ref, prefix matches first.
func suggest(ref string, candidates []string) []string {
	needle := strings.ToLower(strings.TrimSpace(ref))
	if needle == "" {
		return nil
	}
	type match struct {
		name   string
		prefix bool
	}
	var matches []match
	for _, c := range candidates {
		lower := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lower, needle):
			matches = append(matches, match{c, true})
		case strings.Contains(lower, needle):
			matches = append(matches, match{c, false})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}

func rememberSet(set *models.EmissionSet) error {
	store := contextStore()
	current, err := store.Load()
	if err != nil {
		current = &config.Context{}
	}
	current.SetSet(set.ID, set.Name)
	return store.Save(current)
}
