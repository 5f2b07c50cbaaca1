// internal/core/services/barcode.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// ResolveBarcode maps a barcode string to item codes. Sources are searched
// in order: the barcode table, then the scanned value treated as a direct
// item code. Duplicates collapse preserving first-occurrence order.
//
// Outcomes: no match and empty input report ok=false with a message; a
// single match carries the item code; multiple matches carry candidate rows
// for the caller to disambiguate.
func (s *SnapshotService) ResolveBarcode(ctx context.Context, barcode string) (*domain.Resolution, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return &domain.Resolution{OK: false, Message: "Empty barcode"}, nil
	}

	matches, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to search barcodes: %w", err)
	}

	if len(matches) == 0 {
		exists, err := s.repo.ItemExists(ctx, barcode)
		if err != nil {
			return nil, fmt.Errorf("failed to check direct item code: %w", err)
		}
		if exists {
			matches = append(matches, barcode)
		}
	}

	matches = dedupe(matches)

	if len(matches) == 0 {
		return &domain.Resolution{
			OK:      false,
			Message: fmt.Sprintf("No item found for barcode: %s", barcode),
		}, nil
	}

	if len(matches) == 1 {
		return &domain.Resolution{OK: true, ItemCode: matches[0]}, nil
	}

	// Multiple items share the same barcode (rare but possible).
	candidates, err := s.repo.GetBarcodeMatches(ctx, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to load barcode candidates: %w", err)
	}
	for i := range candidates {
		candidates[i].Image = s.resolveImage(ctx, candidates[i].Image)
	}

	s.logger.InfoContext(ctx, "barcode resolved to multiple items",
		slog.String("barcode", barcode),
		slog.Int("matches", len(candidates)))

	return &domain.Resolution{OK: true, Matches: candidates}, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
