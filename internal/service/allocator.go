package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Kosench/go-shortlink/internal/errors"
	"github.com/Kosench/go-shortlink/internal/shortcode"
	"github.com/rs/zerolog"
)

const DefaultMaxAttempts = 10000

// ExistenceChecker answers whether a short code is already stored.
type ExistenceChecker interface {
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
}

type AllocatorConfig struct {
	CodeLength  int
	MaxAttempts int
	// Reserved codes collide with fixed routes and are never handed out.
	Reserved []string
}

// Allocator hands out short codes that were free at check time. The check
// is advisory: storage still has the final word on insert.
type Allocator struct {
	repo        ExistenceChecker
	generate    func(length int) (string, error)
	codeLength  int
	maxAttempts int
	reserved    map[string]struct{}
	log         zerolog.Logger
}

func NewAllocator(repo ExistenceChecker, cfg AllocatorConfig, log zerolog.Logger) *Allocator {
	if cfg.CodeLength < shortcode.MinLength || cfg.CodeLength > shortcode.MaxLength {
		cfg.CodeLength = shortcode.DefaultLength
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	reserved := make(map[string]struct{}, len(cfg.Reserved))
	for _, code := range cfg.Reserved {
		reserved[code] = struct{}{}
	}

	return &Allocator{
		repo:        repo,
		generate:    shortcode.GenerateWithLength,
		codeLength:  cfg.CodeLength,
		maxAttempts: cfg.MaxAttempts,
		reserved:    reserved,
		log:         log.With().Str("component", "allocator").Logger(),
	}
}

func (a *Allocator) isReserved(code string) bool {
	_, ok := a.reserved[code]
	return ok
}

// Generate draws random codes until one is free or the attempt budget runs
// out. A failed existence check ends the allocation instead of retrying.
func (a *Allocator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := a.generate(a.codeLength)
		if err != nil {
			return "", apperrors.NewBusinessError("CODE_GENERATION", "failed to generate short code", err)
		}
		if a.isReserved(code) {
			continue
		}

		exists, err := a.repo.ExistsByShortCode(ctx, code)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			return "", apperrors.Exhausted(fmt.Errorf("existence check failed on attempt %d: %w", attempt, err))
		}

		if !exists {
			if attempt > 1 {
				a.log.Debug().Int("attempts", attempt).Str("short", code).Msg("allocated after collisions")
			}
			return code, nil
		}
	}

	return "", apperrors.Exhausted(fmt.Errorf("no free code of length %d after %d attempts", a.codeLength, a.maxAttempts))
}

// Custom validates a caller-supplied code and rejects it if already taken.
func (a *Allocator) Custom(ctx context.Context, code string) (string, error) {
	if err := shortcode.ValidateCustomCode(code); err != nil {
		return "", err
	}

	if a.isReserved(code) {
		return "", fmt.Errorf("custom code '%s' is reserved: %w", code, apperrors.ErrCodeTaken)
	}

	exists, err := a.repo.ExistsByShortCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to check custom code: %w", err)
	}

	if exists {
		return "", fmt.Errorf("custom code '%s': %w", code, apperrors.ErrCodeTaken)
	}

	return code, nil
}
