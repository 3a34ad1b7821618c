package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/models"
)

// DefaultConcurrency bounds the number of in-flight extraction calls.
const DefaultConcurrency = 4

// ExtractAll runs one extraction per image concurrently and returns the
// results in input order. The first failure cancels the remaining calls
// and is returned wrapped with the image index.
func ExtractAll(ctx context.Context, extractor Extractor, images [][]byte, concurrency int, logger *zap.Logger) ([]models.RawExtraction, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]models.RawExtraction, len(images))
	errs := make([]error, len(images))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		go func(i int, img []byte) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			raw, err := extractor.Extract(ctx, img)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = raw
		}(i, img)
	}
	wg.Wait()

	// Prefer the real failure over the cancellations it triggered.
	firstErr := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == -1 || errors.Is(errs[firstErr], context.Canceled) {
			firstErr = i
		}
	}
	if firstErr >= 0 {
		logger.Error("Image extraction failed",
			zap.Int("image_index", firstErr),
			zap.Error(errs[firstErr]))
		return nil, fmt.Errorf("image %d: %w", firstErr, errs[firstErr])
	}

	return results, nil
}
