package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Kosench/go-shortlink/internal/errors"
	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/Kosench/go-shortlink/internal/repository"
	"github.com/Kosench/go-shortlink/internal/shortcode"
	"github.com/rs/zerolog"
)

type LinkService struct {
	repo      repository.LinkRepository
	allocator *Allocator
	baseURL   string
	now       func() time.Time
	log       zerolog.Logger
}

func NewLinkService(repo repository.LinkRepository, allocator *Allocator, baseURL string, log zerolog.Logger) *LinkService {
	return &LinkService{
		repo:      repo,
		allocator: allocator,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.With().Str("component", "link_service").Logger(),
	}
}

// CreateShortLink stores req.Original under a custom or generated code.
func (s *LinkService) CreateShortLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkResponse, error) {
	original := shortcode.TrimInput(req.Original)
	if err := shortcode.ValidateOriginal(original); err != nil {
		return nil, err
	}

	custom := shortcode.TrimInput(req.Custom)

	var (
		short string
		err   error
	)
	if custom != "" {
		short, err = s.allocator.Custom(ctx, custom)
	} else {
		short, err = s.allocator.Generate(ctx)
	}
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		Original:  original,
		Short:     short,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, link); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			s.log.Warn().Str("short", short).Bool("custom", custom != "").Msg("short code claimed between check and insert")
			return nil, fmt.Errorf("short code '%s': %w", short, apperrors.ErrCodeCollision)
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	s.log.Info().Int64("id", link.ID).Str("short", short).Bool("custom", custom != "").Msg("short link created")

	return s.toResponse(link), nil
}

// Resolve returns the original URL for shortCode and counts the visit.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if shortCode == "" {
		return "", apperrors.ErrURLNotFound
	}

	link, err := s.repo.IncrementVisits(ctx, shortCode)
	if err != nil {
		return "", err
	}

	return link.Original, nil
}

// GetStats reads a link without counting a visit.
func (s *LinkService) GetStats(ctx context.Context, shortCode string) (*model.LinkResponse, error) {
	if shortCode == "" {
		return nil, apperrors.ErrURLNotFound
	}

	link, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	return s.toResponse(link), nil
}

func (s *LinkService) BuildShortURL(shortCode string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortCode)
}

func (s *LinkService) BuildStatsURL(shortCode string) string {
	return fmt.Sprintf("%s/stats/%s", s.baseURL, shortCode)
}

func (s *LinkService) toResponse(link *model.Link) *model.LinkResponse {
	return &model.LinkResponse{
		ID:        link.ID,
		Short:     link.Short,
		Original:  link.Original,
		ShortURL:  s.BuildShortURL(link.Short),
		StatsURL:  s.BuildStatsURL(link.Short),
		Visits:    link.Visits,
		CreatedAt: link.CreatedAt,
	}
}
