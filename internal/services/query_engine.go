package services

import (
	"context"
	"fmt"
	"slices"

	"conferencecentral/internal/domain"

	"golang.org/x/sync/errgroup"
)

// keyQuery runs a single-predicate, key-only query and returns the matching IDs.
type keyQuery func(ctx context.Context, f domain.Filter) ([]string, error)

// conjunctiveQuery evaluates the AND of filters by running one key-only query per filter
// concurrently and intersecting the ID sets in memory.
//
// matchAll is false only when filters is non-empty; callers must then materialize ids.
// With zero filters every record of the kind matches and ids is nil.
func conjunctiveQuery(ctx context.Context, filters []domain.Filter, query keyQuery) (ids []string, matchAll bool, err error) {
	if len(filters) == 0 {
		return nil, true, nil
	}
	filters = slices.Clone(filters)
	if err := checkEnumFilters(filters); err != nil {
		return nil, false, err
	}

	sets := make([][]string, len(filters))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		g.Go(func() error {
			keys, err := query(gctx, f)
			if err != nil {
				return fmt.Errorf("query %s %s: %w", f.Field, f.Op, err)
			}
			sets[i] = keys
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	acc := dedupe(sets[0])
	for _, set := range sets[1:] {
		if len(acc) == 0 {
			break
		}
		acc = intersect(acc, set)
	}
	return acc, false, nil
}

// checkEnumFilters validates filters on enum fields, which only support equality and
// must name an existing member. Values are normalized to the enum type in place.
func checkEnumFilters(filters []domain.Filter) error {
	for i, f := range filters {
		if f.Field != domain.FieldTypeOfSession {
			continue
		}
		if f.Op != domain.OpEQ && f.Op != domain.OpNE {
			return fmt.Errorf("%w: %s on %s", domain.ErrUnsupportedOperator, f.Op, f.Field)
		}
		name, _ := f.Value.(string)
		t, err := domain.ParseSessionType(name)
		if err != nil {
			return err
		}
		filters[i].Value = t
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// intersect keeps the elements of acc that are present in set, in acc order.
func intersect(acc, set []string) []string {
	in := make(map[string]struct{}, len(set))
	for _, id := range set {
		in[id] = struct{}{}
	}
	return slices.DeleteFunc(acc, func(id string) bool {
		_, ok := in[id]
		return !ok
	})
}
